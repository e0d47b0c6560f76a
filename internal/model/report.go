package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is the geotag attached to a citizen submission.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Address   string  `json:"address,omitempty" bson:"address,omitempty"`
}

// Report is a citizen-submitted civic issue plus the classifier verdict
// fields computed at submission time. The store owns everything except
// AIProbability and AISeverity, which come from the inference service.
type Report struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	IssueType     string             `json:"type" bson:"type"`
	Location      Location           `json:"location" bson:"location"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	AIProbability float64            `json:"ai_probability" bson:"ai_probability"`
	AISeverity    string             `json:"ai_severity,omitempty" bson:"ai_severity,omitempty"`
	ImageFilename string             `json:"image_filename,omitempty" bson:"image_filename,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// User is a registered citizen account. PasswordHash is a bcrypt digest
// and never leaves the store layer.
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Neighborhood string             `json:"neighborhood,omitempty" bson:"neighborhood,omitempty"`
	PasswordHash string             `json:"-" bson:"password"`
}
