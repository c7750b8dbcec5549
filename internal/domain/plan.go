// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayKind tags a day as trainable or as an off day.
type DayKind string

const (
	DayActive DayKind = "active"
	DayRest   DayKind = "rest"  // Training/tracker off day
	DayCheat  DayKind = "cheat" // Nutrition off day
)

// IsOff reports whether the kind describes a day that holds no slots.
func (k DayKind) IsOff() bool {
	return k == DayRest || k == DayCheat
}

// Plan is the root aggregate edited by a trainer: an ordered list of days.
// The editor treats it as a value; the host owns it between calls.
type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Addressing only
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`   // Addressing only
	Schema    Schema             `bson:"schema" json:"schema"`
	Name      string             `bson:"name" json:"name"` // e.g., "Phase 1: Hypertrophy"
	Days      []Day              `bson:"days" json:"days"`
	Version   int64              `bson:"version" json:"version"` // Bumped on every saved snapshot
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Day is one entry of the schedule ("Day 1", a rest day, a cheat day).
type Day struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Kind     DayKind `bson:"kind" json:"kind"`
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
	Sequence int     `bson:"sequence" json:"sequence"` // 1-based position, kept equal to index+1
	Slots    []Slot  `bson:"slots" json:"slots"`
}

// Slot is an exercise in a training day or a meal slot in a nutrition day.
type Slot struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	LibraryID string `bson:"libraryId,omitempty" json:"libraryId,omitempty"` // Template it was created from, if any

	Sets int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps string `bson:"reps,omitempty" json:"reps,omitempty"` // e.g., "8-12", "AMRAP"
	Rest string `bson:"rest,omitempty" json:"rest,omitempty"` // e.g., "60s", "2m"
	Time string `bson:"time,omitempty" json:"time,omitempty"` // Meal time, e.g., "08:30"

	// Opaque media references, resolved by the host.
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	Items []Item `bson:"items" json:"items"`
}

// Macros holds nutrition values of a meal option.
type Macros struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
}

// Add returns the element-wise sum.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
	}
}

// Item is a set (training) or a meal option (nutrition). Sets are keyed by
// their position in the slot; meal options additionally carry an ID.
type Item struct {
	ID string `bson:"id,omitempty" json:"id,omitempty"`

	// --- Set fields ---
	Weight    float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Reps      int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Completed bool    `bson:"completed,omitempty" json:"completed,omitempty"`
	Note      string  `bson:"note,omitempty" json:"note,omitempty"`

	// --- Meal option fields ---
	Name   string   `bson:"name,omitempty" json:"name,omitempty"`
	Macros *Macros  `bson:"macros,omitempty" json:"macros,omitempty"`
	Media  []string `bson:"media,omitempty" json:"media,omitempty"`
}
