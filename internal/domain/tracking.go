package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemLog is what a client logged against one item of a slot.
type ItemLog struct {
	Completed bool    `bson:"completed" json:"completed"`
	Weight    float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Reps      int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Note      string  `bson:"note,omitempty" json:"note,omitempty"`
}

// SlotLog holds the logs of a slot's items, by item position.
type SlotLog struct {
	Items []ItemLog `bson:"items" json:"items"`
}

// Tracking is the side-table of logged state, keyed by slot ID so that
// reordering or deleting slots never shifts logs onto the wrong slot.
type Tracking map[string]SlotLog

// Clone returns a copy that shares nothing with t.
func (t Tracking) Clone() Tracking {
	out := make(Tracking, len(t))
	for id, log := range t {
		out[id] = SlotLog{Items: append([]ItemLog(nil), log.Items...)}
	}
	return out
}

// At resolves a display position to the slot's log. ok is false when the
// position does not exist or nothing was logged for that slot.
func (t Tracking) At(plan Plan, day, slot int) (SlotLog, bool) {
	if day < 0 || day >= len(plan.Days) {
		return SlotLog{}, false
	}
	slots := plan.Days[day].Slots
	if slot < 0 || slot >= len(slots) {
		return SlotLog{}, false
	}
	log, ok := t[slots[slot].ID]
	return log, ok
}

// WorkoutLog persists a client's tracking side-table for one plan.
type WorkoutLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Tracking  Tracking           `bson:"tracking" json:"tracking"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
