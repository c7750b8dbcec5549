package editor

import (
	"fmt"
	"slices"

	"alcyxob/coach-dashboard/internal/domain"

	"github.com/google/uuid"
)

// newID generates identifiers for days, slots and (nutrition) items.
var newID = uuid.NewString

// withDays returns p with its own days slice. Days themselves are shared
// until an operation replaces one.
func withDays(p domain.Plan) domain.Plan {
	p.Days = slices.Clone(p.Days)
	return p
}

func resequence(days []domain.Day) {
	for i := range days {
		days[i].Sequence = i + 1
	}
}

func cloneItem(it domain.Item) domain.Item {
	if it.Macros != nil {
		m := *it.Macros
		it.Macros = &m
	}
	if it.Media != nil {
		it.Media = slices.Clone(it.Media)
	}
	return it
}

func cloneSlot(s domain.Slot) domain.Slot {
	items := make([]domain.Item, len(s.Items))
	for i, it := range s.Items {
		items[i] = cloneItem(it)
	}
	s.Items = items
	return s
}

// freshSlot deep-copies s under new identities so later edits of the copy
// never reach the source.
func freshSlot(s domain.Slot, rules domain.SchemaRules) domain.Slot {
	s = cloneSlot(s)
	s.ID = newID()
	if rules.ItemIdentity {
		for i := range s.Items {
			s.Items[i].ID = newID()
		}
	}
	return s
}

func blankItem(rules domain.SchemaRules) domain.Item {
	if rules.ItemIdentity {
		return domain.Item{ID: newID()}
	}
	return domain.Item{}
}

// idSet holds the slot and item IDs a plan already uses.
type idSet struct {
	slots map[string]bool
	items map[string]bool
}

func newIDSet() idSet {
	return idSet{slots: map[string]bool{}, items: map[string]bool{}}
}

func usedIDs(p domain.Plan) idSet {
	ids := newIDSet()
	for _, d := range p.Days {
		for _, s := range d.Slots {
			ids.add(s)
		}
	}
	return ids
}

func (ids idSet) add(s domain.Slot) {
	ids.slots[s.ID] = true
	for _, it := range s.Items {
		if it.ID != "" {
			ids.items[it.ID] = true
		}
	}
}

func (ids idSet) forget(s domain.Slot) {
	delete(ids.slots, s.ID)
	for _, it := range s.Items {
		delete(ids.items, it.ID)
	}
}

// normalizeSlot prepares a slot coming from outside the editor: private
// storage, an ID, at least one item, item IDs where the schema needs them.
// IDs that are missing or already taken in used are replaced, so logs keyed
// by slot ID never end up shared between two slots.
func normalizeSlot(s domain.Slot, rules domain.SchemaRules, used idSet) domain.Slot {
	s = cloneSlot(s)
	if s.ID == "" || used.slots[s.ID] {
		s.ID = newID()
	}
	used.slots[s.ID] = true
	if len(s.Items) == 0 {
		s.Items = []domain.Item{blankItem(rules)}
	}
	if rules.ItemIdentity {
		for i := range s.Items {
			if id := s.Items[i].ID; id == "" || used.items[id] {
				s.Items[i].ID = newID()
			}
			used.items[s.Items[i].ID] = true
		}
	}
	return s
}

// validKind reports whether a day of kind k fits a plan with the given
// rules: active, or the schema's own off kind.
func validKind(k domain.DayKind, rules domain.SchemaRules) bool {
	return k == domain.DayActive || k == rules.OffKind
}

// Normalize prepares a whole plan snapshot coming from outside the editor.
// Missing IDs are filled in, sequence numbers follow storage order and off
// days must not carry slots. A day, slot or item ID used twice is rejected.
func Normalize(p domain.Plan) (domain.Plan, error) {
	schema, err := domain.ParseSchema(string(p.Schema))
	if err != nil {
		return p, fmt.Errorf("%v: %w", err, ErrInvalidField)
	}
	p.Schema = schema
	rules := schema.Rules()

	in := p
	p = withDays(p)
	days := map[string]bool{}
	used := newIDSet()
	for i, d := range p.Days {
		if d.ID == "" {
			d.ID = newID()
		} else if days[d.ID] {
			return in, fmt.Errorf("day %d id %q: %w", i, d.ID, ErrDuplicateID)
		}
		days[d.ID] = true
		if d.Kind == "" {
			d.Kind = domain.DayActive
		}
		if !validKind(d.Kind, rules) {
			return in, fmt.Errorf("day %d kind %q in a %s plan: %w", i, d.Kind, schema, ErrInvalidKind)
		}
		if d.Kind.IsOff() && len(d.Slots) > 0 {
			return in, fmt.Errorf("day %d: %w", i, ErrOffDay)
		}
		slots := make([]domain.Slot, len(d.Slots))
		for j, s := range d.Slots {
			if err := checkDuplicates(s, rules, used); err != nil {
				return in, fmt.Errorf("day %d slot %d: %w", i, j, err)
			}
			slots[j] = normalizeSlot(s, rules, used)
		}
		d.Slots = slots
		p.Days[i] = d
	}
	if p.Days == nil {
		p.Days = []domain.Day{}
	}
	resequence(p.Days)
	return p, nil
}

func checkDuplicates(s domain.Slot, rules domain.SchemaRules, used idSet) error {
	if s.ID != "" && used.slots[s.ID] {
		return fmt.Errorf("slot id %q: %w", s.ID, ErrDuplicateID)
	}
	if !rules.ItemIdentity {
		return nil
	}
	seen := map[string]bool{}
	for _, it := range s.Items {
		if it.ID == "" {
			continue
		}
		if used.items[it.ID] || seen[it.ID] {
			return fmt.Errorf("item id %q: %w", it.ID, ErrDuplicateID)
		}
		seen[it.ID] = true
	}
	return nil
}
