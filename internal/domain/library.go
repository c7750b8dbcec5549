// internal/domain/library.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateKind says which plan schema a library template is meant for.
type TemplateKind string

const (
	TemplateExercise TemplateKind = "exercise"
	TemplateMeal     TemplateKind = "meal"
)

// Template is a reusable slot definition in a trainer's library.
type Template struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Owner of the template
	Kind        TemplateKind       `bson:"kind" json:"kind"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs"
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g., "Novice", "Advanced"

	// Defaults copied into a new slot.
	Sets     int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps     string `bson:"reps,omitempty" json:"reps,omitempty"`
	Rest     string `bson:"rest,omitempty" json:"rest,omitempty"`
	Time     string `bson:"time,omitempty" json:"time,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Options  []Item `bson:"options,omitempty" json:"options,omitempty"` // Meal options

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
