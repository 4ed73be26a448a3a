package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AgeRequirement struct {
	Min *int `bson:"min,omitempty" json:"min,omitempty"`
	Max *int `bson:"max,omitempty" json:"max,omitempty"`
}

// Scheme is a government support programme farmers can apply for.
type Scheme struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"                 json:"_id"`
	Title               string             `bson:"title"                         json:"title"`
	Description         string             `bson:"description"                   json:"description"`
	Benefit             string             `bson:"benefit"                       json:"benefit"`
	Eligibility         []string           `bson:"eligibility"                   json:"eligibility"`
	ApplicationDeadline time.Time          `bson:"applicationDeadline"           json:"applicationDeadline"`
	ApplicationLink     string             `bson:"applicationLink,omitempty"     json:"applicationLink,omitempty"`
	Department          string             `bson:"department"                    json:"department"`
	Category            string             `bson:"category"                      json:"category"`
	TargetStates        []string           `bson:"targetStates"                  json:"targetStates"`
	IsActive            bool               `bson:"isActive"                      json:"isActive"`
	MinLandRequirement  float64            `bson:"minLandRequirement"            json:"minLandRequirement"`
	MaxLandRequirement  *float64           `bson:"maxLandRequirement"            json:"maxLandRequirement"`
	AgeRequirement      AgeRequirement     `bson:"ageRequirement,omitempty"      json:"ageRequirement,omitempty"`
	Documents           []string           `bson:"documents,omitempty"           json:"documents,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"                     json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"                     json:"updatedAt"`
}
