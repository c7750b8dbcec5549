package editor

import (
	"fmt"
	"slices"

	"alcyxob/coach-dashboard/internal/domain"
)

// spliceMove takes list[from] out and inserts it at gap, where gap is an
// insertion point counted in the list before removal. Removing the element
// shifts everything after it down by one, so a gap past the source has to
// be decremented first.
func spliceMove[T any](list []T, from, gap int) []T {
	moved := list[from]
	out := slices.Delete(slices.Clone(list), from, from+1)
	if from < gap {
		gap--
	}
	return slices.Insert(out, gap, moved)
}

// hoverGap turns "dragged element is over index to" into an insertion gap.
// Moving down the element lands after the hovered one, moving up before it,
// so the element always ends up at index to.
func hoverGap(from, to int) int {
	if from < to {
		return to + 1
	}
	return to
}

// MoveDay moves the day at from so it ends up at index to.
func MoveDay(p domain.Plan, from, to int) (domain.Plan, error) {
	if err := checkIndex("day", from, len(p.Days)); err != nil {
		return p, err
	}
	if err := checkIndex("target day", to, len(p.Days)); err != nil {
		return p, err
	}
	if from == to {
		return p, nil
	}
	out := p
	out.Days = spliceMove(p.Days, from, hoverGap(from, to))
	resequence(out.Days)
	return out, nil
}

// MoveSlot moves a slot within a day or into another day. Within a day the
// slot ends up at index to. Across days it is inserted before the slot at
// to in the destination; to == len(destination) appends. The slot leaves
// the source and enters the destination in the same returned plan.
func MoveSlot(p domain.Plan, fromDay, from, toDay, to int) (domain.Plan, error) {
	if err := checkIndex("day", fromDay, len(p.Days)); err != nil {
		return p, err
	}
	if err := checkIndex("target day", toDay, len(p.Days)); err != nil {
		return p, err
	}
	src := p.Days[fromDay].Slots
	if err := checkIndex("slot", from, len(src)); err != nil {
		return p, err
	}

	out := withDays(p)
	if fromDay == toDay {
		if err := checkIndex("target slot", to, len(src)); err != nil {
			return p, err
		}
		if from == to {
			return p, nil
		}
		out.Days[fromDay].Slots = spliceMove(src, from, hoverGap(from, to))
		return out, nil
	}

	dst := p.Days[toDay]
	if dst.Kind.IsOff() {
		return p, fmt.Errorf("day %d: %w", toDay, ErrOffDay)
	}
	if to < 0 || to > len(dst.Slots) {
		return p, fmt.Errorf("target slot index %d with length %d: %w", to, len(dst.Slots), ErrIndexOutOfRange)
	}
	moved := src[from]
	out.Days[fromDay].Slots = slices.Delete(slices.Clone(src), from, from+1)
	out.Days[toDay].Slots = slices.Insert(slices.Clone(dst.Slots), to, moved)
	return out, nil
}

// Axis is one of the two independent reorder axes.
type Axis string

const (
	AxisDay  Axis = "day"
	AxisSlot Axis = "slot"
)

// DragItem is the payload of an ongoing drag. For AxisDay only Day is used.
// Its position is rewritten after every committed hover.
type DragItem struct {
	Axis Axis `json:"axis"`
	Day  int  `json:"day"`
	Slot int  `json:"slot"`
}

// DropTarget is the element under the pointer. Shallow is true only when
// the pointer is over this target itself and not over a nested target;
// hovers on non-shallow targets are ignored so a slot drag never also
// reorders the day around it.
type DropTarget struct {
	Axis    Axis `json:"axis"`
	Day     int  `json:"day"`
	Slot    int  `json:"slot"`
	Shallow bool `json:"shallow"`
}

// HoverCommand translates a hover event into the move it should commit.
// ok is false when the hover must not change anything.
func HoverCommand(p domain.Plan, drag DragItem, target DropTarget) (cmd Command, next DragItem, ok bool) {
	if !target.Shallow {
		return Command{}, drag, false
	}
	switch drag.Axis {
	case AxisDay:
		if target.Axis != AxisDay || drag.Day == target.Day {
			return Command{}, drag, false
		}
		next = DragItem{Axis: AxisDay, Day: target.Day}
		return MoveDayCommand(drag.Day, target.Day), next, true

	case AxisSlot:
		// Off days accept no slots; hovering them changes nothing.
		if target.Day != drag.Day && isOffDay(p, target.Day) {
			return Command{}, drag, false
		}
		switch target.Axis {
		case AxisSlot:
			if drag.Day == target.Day && drag.Slot == target.Slot {
				return Command{}, drag, false
			}
			next = DragItem{Axis: AxisSlot, Day: target.Day, Slot: target.Slot}
			return MoveSlotCommand(drag.Day, drag.Slot, target.Day, target.Slot), next, true
		case AxisDay:
			// Hovering a day's empty area: append to that day.
			if drag.Day == target.Day || target.Day < 0 || target.Day >= len(p.Days) {
				return Command{}, drag, false
			}
			to := len(p.Days[target.Day].Slots)
			next = DragItem{Axis: AxisSlot, Day: target.Day, Slot: to}
			return MoveSlotCommand(drag.Day, drag.Slot, target.Day, to), next, true
		}
	}
	return Command{}, drag, false
}

func isOffDay(p domain.Plan, i int) bool {
	return i >= 0 && i < len(p.Days) && p.Days[i].Kind.IsOff()
}

// Hover commits a hover event immediately (hover-swap). It returns the new
// state and the drag payload updated to the dragged element's new position.
func (r *Reducer) Hover(s State, drag DragItem, target DropTarget) (State, DragItem, error) {
	cmd, next, ok := HoverCommand(s.Plan, drag, target)
	if !ok {
		return s, drag, nil
	}
	ns, err := r.Reduce(s, cmd)
	if err != nil {
		return s, drag, err
	}
	return ns, next, nil
}
