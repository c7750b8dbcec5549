package domain

import "fmt"

// Schema selects which flavour of plan a document is.
type Schema string

const (
	SchemaTraining  Schema = "training"  // Trainer-side schedule editor
	SchemaTracker   Schema = "tracker"   // Client-side live workout tracker
	SchemaNutrition Schema = "nutrition" // Meal planner
)

// SchemaRules describes the per-schema behaviour the editor needs.
type SchemaRules struct {
	DayLabel     string  // Prefix of generated day names ("Day" -> "Day 3")
	OffKind      DayKind // Kind used by the "off day" variant
	ItemIdentity bool    // Whether items carry their own stable IDs
}

var schemaRules = map[Schema]SchemaRules{
	SchemaTraining:  {DayLabel: "Day", OffKind: DayRest},
	SchemaTracker:   {DayLabel: "Day", OffKind: DayRest},
	SchemaNutrition: {DayLabel: "Day", OffKind: DayCheat, ItemIdentity: true},
}

// Rules returns the rules for s. Unknown or empty schemas behave like training.
func (s Schema) Rules() SchemaRules {
	if r, ok := schemaRules[s]; ok {
		return r
	}
	return schemaRules[SchemaTraining]
}

// ParseSchema validates a raw schema name. Empty input means training.
func ParseSchema(raw string) (Schema, error) {
	if raw == "" {
		return SchemaTraining, nil
	}
	s := Schema(raw)
	if _, ok := schemaRules[s]; !ok {
		return "", fmt.Errorf("domain: unknown plan schema %q", raw)
	}
	return s, nil
}
