package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ForecastDay struct {
	Day  string `bson:"day"  json:"day"`
	Temp string `bson:"temp" json:"temp"`
	Rain string `bson:"rain" json:"rain"`
	Wind string `bson:"wind" json:"wind"`
}

// CropRecord is one planted crop instance owned by one user.
type CropRecord struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"         json:"id"`
	OwnerID             string             `bson:"userId"                json:"userId"`
	Name                string             `bson:"name"                  json:"name"`
	Variety             string             `bson:"variety"               json:"variety"`
	AreaAcres           float64            `bson:"area"                  json:"areaAcres"`
	PlantedDate         time.Time          `bson:"plantedDate"           json:"plantedDate"`
	ExpectedHarvestDate time.Time          `bson:"expectedHarvestDate"   json:"expectedHarvestDate"`
	CurrentStage        string             `bson:"currentStage"          json:"currentStage"`
	Health              string             `bson:"health"                json:"health"`
	Location            string             `bson:"location,omitempty"    json:"location,omitempty"`
	Progress            int                `bson:"progress"              json:"progress"`
	HarvestPurpose      string             `bson:"harvestPurpose"        json:"harvestPurpose"`
	Forecast            []ForecastDay      `bson:"weather"               json:"weather"`
	Notes               string             `bson:"notes,omitempty"       json:"notes,omitempty"`
	IsActive            bool               `bson:"isActive"              json:"isActive"`
	CreatedAt           time.Time          `bson:"createdAt"             json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"             json:"updatedAt"`
}
