package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer model
type Volunteer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName      string             `bson:"full_name" json:"fullName"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PreferredArea string             `bson:"preferred_area" json:"preferredArea"`
	Skills        string             `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability  []string           `bson:"availability,omitempty" json:"availability,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
