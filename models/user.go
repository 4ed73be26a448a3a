package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"      json:"_id"`
	Name         string             `bson:"name"               json:"name"`
	Email        string             `bson:"email"              json:"email"`
	PasswordHash string             `bson:"password"           json:"-"`
	Role         string             `bson:"role"               json:"role"`
	Phone        string             `bson:"phone,omitempty"    json:"phone,omitempty"`
	State        string             `bson:"state,omitempty"    json:"state,omitempty"`
	LandSize     float64            `bson:"landSize,omitempty" json:"landSize,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"          json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"          json:"updatedAt"`
}
