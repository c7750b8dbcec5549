package editor

import (
	"fmt"
	"slices"

	"alcyxob/coach-dashboard/internal/domain"
)

// Op names a state transition.
type Op string

const (
	OpAddDay      Op = "add_day"
	OpRemoveDay   Op = "remove_day"
	OpUpdateDay   Op = "update_day"
	OpMoveDay     Op = "move_day"
	OpAddSlot     Op = "add_slot"
	OpRemoveSlot  Op = "remove_slot"
	OpReplaceSlot Op = "replace_slot"
	OpMoveSlot    Op = "move_slot"
	OpAddItem     Op = "add_item"
	OpRemoveItem  Op = "remove_item"
	OpUpdateItem  Op = "update_item"
	OpLogItem     Op = "log_item"
	OpResetLog    Op = "reset_log"
)

// Command is one requested change. Which fields are read depends on Op:
// Day/Slot/Item address the element, ToDay/To the destination of a move
// (move_day uses Day -> To).
type Command struct {
	Op    Op  `json:"op"`
	Day   int `json:"day"`
	Slot  int `json:"slot"`
	Item  int `json:"item"`
	ToDay int `json:"toDay"`
	To    int `json:"to"`

	Variant   *DayVariant     `json:"variant,omitempty"`
	DayFields *DayFields      `json:"dayFields,omitempty"`
	NewSlot   *domain.Slot    `json:"newSlot,omitempty"`
	Field     ItemField       `json:"field,omitempty"`
	Value     any             `json:"value,omitempty"`
	Log       *domain.ItemLog `json:"log,omitempty"`
}

func MoveDayCommand(from, to int) Command {
	return Command{Op: OpMoveDay, Day: from, To: to}
}

func MoveSlotCommand(fromDay, from, toDay, to int) Command {
	return Command{Op: OpMoveSlot, Day: fromDay, Slot: from, ToDay: toDay, To: to}
}

// State is everything the editor transitions: the plan and its logs.
type State struct {
	Plan     domain.Plan     `json:"plan"`
	Tracking domain.Tracking `json:"tracking"`
}

// Options tune product policies of the reducer.
type Options struct {
	// ResetTrackingOnTransfer drops a slot's logs when it moves to another
	// day instead of carrying them along.
	ResetTrackingOnTransfer bool
}

// Reducer applies commands. It keeps no state between calls.
type Reducer struct {
	opts Options
}

func NewReducer(opts Options) *Reducer {
	return &Reducer{opts: opts}
}

// Reduce applies one command. On error the input state is returned as is.
func (r *Reducer) Reduce(s State, cmd Command) (State, error) {
	next := s
	var err error

	switch cmd.Op {
	case OpAddDay:
		v := Blank()
		if cmd.Variant != nil {
			v = *cmd.Variant
		}
		next.Plan, err = AddDay(s.Plan, v)
	case OpRemoveDay:
		next.Plan, err = RemoveDay(s.Plan, cmd.Day)
	case OpUpdateDay:
		var f DayFields
		if cmd.DayFields != nil {
			f = *cmd.DayFields
		}
		next.Plan, err = UpdateDay(s.Plan, cmd.Day, f)
	case OpMoveDay:
		next.Plan, err = MoveDay(s.Plan, cmd.Day, cmd.To)
	case OpAddSlot:
		var slot domain.Slot
		if cmd.NewSlot != nil {
			slot = *cmd.NewSlot
		}
		next.Plan, err = AddSlot(s.Plan, cmd.Day, slot)
	case OpRemoveSlot:
		next.Plan, err = RemoveSlot(s.Plan, cmd.Day, cmd.Slot)
	case OpReplaceSlot:
		if cmd.NewSlot == nil {
			err = fmt.Errorf("missing slot: %w", ErrInvalidField)
			break
		}
		next.Plan, err = ReplaceSlot(s.Plan, cmd.Day, cmd.Slot, *cmd.NewSlot)
	case OpMoveSlot:
		next.Plan, err = MoveSlot(s.Plan, cmd.Day, cmd.Slot, cmd.ToDay, cmd.To)
		if err == nil && r.opts.ResetTrackingOnTransfer && cmd.Day != cmd.ToDay {
			movedID := s.Plan.Days[cmd.Day].Slots[cmd.Slot].ID
			next.Tracking = withoutSlot(s.Tracking, movedID)
		}
	case OpAddItem:
		next.Plan, err = AddItem(s.Plan, cmd.Day, cmd.Slot)
	case OpRemoveItem:
		next.Plan, err = RemoveItem(s.Plan, cmd.Day, cmd.Slot)
	case OpUpdateItem:
		next.Plan, err = UpdateItem(s.Plan, cmd.Day, cmd.Slot, cmd.Item, cmd.Field, cmd.Value)
	case OpLogItem:
		var l domain.ItemLog
		if cmd.Log != nil {
			l = *cmd.Log
		}
		next.Tracking, err = LogItem(s.Plan, s.Tracking, cmd.Day, cmd.Slot, cmd.Item, l)
	case OpResetLog:
		next.Tracking, err = ResetLog(s.Plan, s.Tracking, cmd.Day, cmd.Slot)
	default:
		err = fmt.Errorf("op %q: %w", cmd.Op, ErrUnknownOp)
	}
	if err != nil {
		return s, fmt.Errorf("editor: %s: %w", cmd.Op, err)
	}

	next.Tracking = Prune(next.Plan, next.Tracking)
	return next, nil
}

// ReduceAll applies cmds in order. Either all of them apply or, on the
// first failure, the original state is returned with the error.
func (r *Reducer) ReduceAll(s State, cmds []Command) (State, error) {
	cur := s
	for i, cmd := range cmds {
		next, err := r.Reduce(cur, cmd)
		if err != nil {
			return s, fmt.Errorf("command %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// LogItem records logged state for item ii of a slot.
func LogItem(p domain.Plan, t domain.Tracking, di, si, ii int, l domain.ItemLog) (domain.Tracking, error) {
	if err := checkIndex("day", di, len(p.Days)); err != nil {
		return t, err
	}
	slots := p.Days[di].Slots
	if err := checkIndex("slot", si, len(slots)); err != nil {
		return t, err
	}
	slot := slots[si]
	if err := checkIndex("item", ii, len(slot.Items)); err != nil {
		return t, err
	}

	out := t.Clone()
	sl := out[slot.ID]
	if len(sl.Items) <= ii {
		sl.Items = append(sl.Items, make([]domain.ItemLog, ii+1-len(sl.Items))...)
	}
	sl.Items[ii] = l
	out[slot.ID] = sl
	return out, nil
}

// ResetLog clears everything logged for a slot.
func ResetLog(p domain.Plan, t domain.Tracking, di, si int) (domain.Tracking, error) {
	if err := checkIndex("day", di, len(p.Days)); err != nil {
		return t, err
	}
	if err := checkIndex("slot", si, len(p.Days[di].Slots)); err != nil {
		return t, err
	}
	return withoutSlot(t, p.Days[di].Slots[si].ID), nil
}

func withoutSlot(t domain.Tracking, id string) domain.Tracking {
	out := t.Clone()
	delete(out, id)
	return out
}

// Prune returns the logs that still belong to the plan: entries of removed
// slots are dropped and logs of removed items are cut off.
func Prune(p domain.Plan, t domain.Tracking) domain.Tracking {
	out := make(domain.Tracking, len(t))
	for _, d := range p.Days {
		for _, s := range d.Slots {
			sl, ok := t[s.ID]
			if !ok {
				continue
			}
			if len(sl.Items) > len(s.Items) {
				sl.Items = sl.Items[:len(s.Items)]
			}
			out[s.ID] = copyLog(sl)
		}
	}
	return out
}

// copyLog returns a copy of l with its own item storage.
func copyLog(l domain.SlotLog) domain.SlotLog {
	return domain.SlotLog{Items: slices.Clone(l.Items)}
}
