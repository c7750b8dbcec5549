// Package editor holds the plan editing core: pure operations over a
// domain.Plan, the hover-swap reorder engine and the progress view.
//
// Every operation returns a new plan and leaves its input untouched. On a
// precondition violation the input plan is returned along with the error.
package editor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"alcyxob/coach-dashboard/internal/domain"
)

// VariantKind selects how AddDay builds the new day.
type VariantKind string

const (
	VariantBlank VariantKind = "blank"
	VariantCopy  VariantKind = "copy"
	VariantOff   VariantKind = "off"
)

// DayVariant describes the day AddDay appends. From is only read for copies.
type DayVariant struct {
	Kind VariantKind `json:"kind"`
	From int         `json:"from,omitempty"`
}

func Blank() DayVariant       { return DayVariant{Kind: VariantBlank} }
func CopyOf(i int) DayVariant { return DayVariant{Kind: VariantCopy, From: i} }
func OffDay() DayVariant      { return DayVariant{Kind: VariantOff} }

// DayFields is a partial update of a day; nil fields are left alone.
type DayFields struct {
	Name  *string         `json:"name,omitempty"`
	Kind  *domain.DayKind `json:"kind,omitempty"`
	Notes *string         `json:"notes,omitempty"`
}

func dayName(label string, n int) string {
	return label + " " + strconv.Itoa(n)
}

// isGeneratedName reports whether name looks like one the editor produced
// ("Day 4") or was never set. Anything else was typed by a trainer.
func isGeneratedName(label, name string) bool {
	if name == "" {
		return true
	}
	rest, ok := strings.CutPrefix(name, label+" ")
	if !ok {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n > 0 && strconv.Itoa(n) == rest
}

// AddDay appends a blank day, a copy of an existing day or an off day.
func AddDay(p domain.Plan, v DayVariant) (domain.Plan, error) {
	rules := p.Schema.Rules()
	day := domain.Day{
		ID:    newID(),
		Name:  dayName(rules.DayLabel, len(p.Days)+1),
		Kind:  domain.DayActive,
		Slots: []domain.Slot{},
	}

	switch v.Kind {
	case VariantBlank, "":
	case VariantOff:
		day.Kind = rules.OffKind
	case VariantCopy:
		if err := checkIndex("day", v.From, len(p.Days)); err != nil {
			return p, err
		}
		src := p.Days[v.From]
		day.Kind = src.Kind
		day.Notes = src.Notes
		day.Slots = make([]domain.Slot, len(src.Slots))
		for i, s := range src.Slots {
			day.Slots[i] = freshSlot(s, rules)
		}
	default:
		return p, fmt.Errorf("variant %q: %w", v.Kind, ErrInvalidVariant)
	}

	out := withDays(p)
	out.Days = append(out.Days, day)
	resequence(out.Days)
	return out, nil
}

// RemoveDay deletes a day and renumbers the generated names of the
// remaining days so they read Day 1..N again. Custom names are kept.
func RemoveDay(p domain.Plan, index int) (domain.Plan, error) {
	if err := checkIndex("day", index, len(p.Days)); err != nil {
		return p, err
	}
	label := p.Schema.Rules().DayLabel

	out := p
	out.Days = slices.Delete(slices.Clone(p.Days), index, index+1)
	for i := range out.Days {
		if isGeneratedName(label, out.Days[i].Name) {
			out.Days[i].Name = dayName(label, i+1)
		}
	}
	resequence(out.Days)
	return out, nil
}

// UpdateDay merges the set fields into the day. Turning a day into an off
// day drops its slots.
func UpdateDay(p domain.Plan, index int, f DayFields) (domain.Plan, error) {
	if err := checkIndex("day", index, len(p.Days)); err != nil {
		return p, err
	}
	if f.Kind != nil && !validKind(*f.Kind, p.Schema.Rules()) {
		return p, fmt.Errorf("kind %q in a %s plan: %w", *f.Kind, p.Schema, ErrInvalidKind)
	}

	out := withDays(p)
	d := &out.Days[index]
	if f.Name != nil {
		d.Name = *f.Name
	}
	if f.Notes != nil {
		d.Notes = *f.Notes
	}
	if f.Kind != nil {
		d.Kind = *f.Kind
		if d.Kind.IsOff() {
			d.Slots = []domain.Slot{}
		}
	}
	return out, nil
}

// editDay runs fn against a private copy of day di.
func editDay(p domain.Plan, di int, fn func(d *domain.Day) error) (domain.Plan, error) {
	if err := checkIndex("day", di, len(p.Days)); err != nil {
		return p, err
	}
	out := withDays(p)
	if err := fn(&out.Days[di]); err != nil {
		return p, err
	}
	return out, nil
}

// editSlot runs fn against a private copy of slot si of day di.
func editSlot(p domain.Plan, di, si int, fn func(s *domain.Slot) error) (domain.Plan, error) {
	return editDay(p, di, func(d *domain.Day) error {
		if err := checkIndex("slot", si, len(d.Slots)); err != nil {
			return err
		}
		d.Slots = slices.Clone(d.Slots)
		return fn(&d.Slots[si])
	})
}

// AddSlot appends a slot to a day. The slot is copied; it gets an ID and a
// first item when it has none, and a new ID when its own is already used
// somewhere in the plan.
func AddSlot(p domain.Plan, di int, s domain.Slot) (domain.Plan, error) {
	rules := p.Schema.Rules()
	return editDay(p, di, func(d *domain.Day) error {
		if d.Kind.IsOff() {
			return fmt.Errorf("day %d: %w", di, ErrOffDay)
		}
		d.Slots = append(slices.Clone(d.Slots), normalizeSlot(s, rules, usedIDs(p)))
		return nil
	})
}

// RemoveSlot deletes the slot at si; later slots move up by one.
func RemoveSlot(p domain.Plan, di, si int) (domain.Plan, error) {
	return editDay(p, di, func(d *domain.Day) error {
		if err := checkIndex("slot", si, len(d.Slots)); err != nil {
			return err
		}
		d.Slots = slices.Delete(slices.Clone(d.Slots), si, si+1)
		return nil
	})
}

// ReplaceSlot swaps the content of a slot in place. The slot keeps its ID
// and position, so its logged progress stays attached.
func ReplaceSlot(p domain.Plan, di, si int, s domain.Slot) (domain.Plan, error) {
	rules := p.Schema.Rules()
	return editSlot(p, di, si, func(cur *domain.Slot) error {
		used := usedIDs(p)
		used.forget(*cur)
		next := normalizeSlot(s, rules, used)
		next.ID = cur.ID
		*cur = next
		return nil
	})
}

// AddItem appends a blank set or option to a slot.
func AddItem(p domain.Plan, di, si int) (domain.Plan, error) {
	rules := p.Schema.Rules()
	return editSlot(p, di, si, func(s *domain.Slot) error {
		s.Items = append(slices.Clone(s.Items), blankItem(rules))
		return nil
	})
}

// RemoveItem drops the last item of a slot. A slot never goes below one
// item; asking for that returns p unchanged.
func RemoveItem(p domain.Plan, di, si int) (domain.Plan, error) {
	if err := checkIndex("day", di, len(p.Days)); err != nil {
		return p, err
	}
	if err := checkIndex("slot", si, len(p.Days[di].Slots)); err != nil {
		return p, err
	}
	if len(p.Days[di].Slots[si].Items) <= 1 {
		return p, nil
	}
	return editSlot(p, di, si, func(s *domain.Slot) error {
		s.Items = slices.Clone(s.Items[:len(s.Items)-1])
		return nil
	})
}

// ItemField names an editable field of an item.
type ItemField string

const (
	FieldWeight    ItemField = "weight"
	FieldReps      ItemField = "reps"
	FieldCompleted ItemField = "completed"
	FieldNote      ItemField = "note"
	FieldName      ItemField = "name"
	FieldCalories  ItemField = "calories"
	FieldProtein   ItemField = "protein"
	FieldCarbs     ItemField = "carbs"
	FieldFats      ItemField = "fats"
)

// UpdateItem sets a single field of one item.
func UpdateItem(p domain.Plan, di, si, ii int, field ItemField, value any) (domain.Plan, error) {
	return editSlot(p, di, si, func(s *domain.Slot) error {
		if err := checkIndex("item", ii, len(s.Items)); err != nil {
			return err
		}
		it := cloneItem(s.Items[ii])
		if err := setItemField(&it, field, value); err != nil {
			return err
		}
		s.Items = slices.Clone(s.Items)
		s.Items[ii] = it
		return nil
	})
}

func setItemField(it *domain.Item, field ItemField, value any) error {
	switch field {
	case FieldWeight:
		f, ok := asFloat(value)
		if !ok {
			return fieldError(field, value)
		}
		it.Weight = f
	case FieldReps:
		n, ok := asInt(value)
		if !ok {
			return fieldError(field, value)
		}
		it.Reps = n
	case FieldCompleted:
		b, ok := value.(bool)
		if !ok {
			return fieldError(field, value)
		}
		it.Completed = b
	case FieldNote, FieldName:
		str, ok := value.(string)
		if !ok {
			return fieldError(field, value)
		}
		if field == FieldNote {
			it.Note = str
		} else {
			it.Name = str
		}
	case FieldCalories, FieldProtein, FieldCarbs, FieldFats:
		f, ok := asFloat(value)
		if !ok {
			return fieldError(field, value)
		}
		if it.Macros == nil {
			it.Macros = &domain.Macros{}
		}
		switch field {
		case FieldCalories:
			it.Macros.Calories = f
		case FieldProtein:
			it.Macros.Protein = f
		case FieldCarbs:
			it.Macros.Carbs = f
		default:
			it.Macros.Fats = f
		}
	default:
		return fieldError(field, value)
	}
	return nil
}

func fieldError(field ItemField, value any) error {
	return fmt.Errorf("field %q value %v: %w", field, value, ErrInvalidField)
}

// asFloat accepts the numeric shapes a decoded JSON or BSON value can take.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
