package editor

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"alcyxob/coach-dashboard/internal/domain"
)

func letters(ids ...string) []domain.Slot {
	out := make([]domain.Slot, len(ids))
	for i, id := range ids {
		out[i] = testSlot(id, 1)
	}
	return out
}

func TestSpliceMove(t *testing.T) {
	in := []string{"A", "B", "C", "D", "E"}
	tests := []struct {
		name      string
		from, gap int
		want      []string
	}{
		// Gap 3 is "before D" in the original list; after taking B out,
		// D sits at 2, so B is inserted at 2.
		{"down past removal", 1, 3, []string{"A", "C", "B", "D", "E"}},
		{"up", 3, 1, []string{"A", "D", "B", "C", "E"}},
		{"to end", 0, 5, []string{"B", "C", "D", "E", "A"}},
		{"to front", 4, 0, []string{"E", "A", "B", "C", "D"}},
		{"own gap", 2, 2, []string{"A", "B", "C", "D", "E"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spliceMove(in, tt.from, tt.gap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("spliceMove(%d, %d) = %v, want %v", tt.from, tt.gap, got, tt.want)
			}
		})
	}
	if !reflect.DeepEqual(in, []string{"A", "B", "C", "D", "E"}) {
		t.Errorf("input mutated: %v", in)
	}
}

func TestMoveSlotSameDay(t *testing.T) {
	p := domain.Plan{Days: []domain.Day{testDay(1, letters("A", "B", "C", "D", "E")...)}}

	got, err := MoveSlot(p, 0, 1, 0, 3)
	if err != nil {
		t.Fatalf("move slot: %v", err)
	}
	want := []string{"A", "C", "D", "B", "E"}
	if ids := slotIDs(got.Days[0]); !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}

	got, _ = MoveSlot(p, 0, 3, 0, 1)
	want = []string{"A", "D", "B", "C", "E"}
	if ids := slotIDs(got.Days[0]); !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}

	got, _ = MoveSlot(p, 0, 2, 0, 2)
	if !reflect.DeepEqual(got, p) {
		t.Error("moving onto itself changed the plan")
	}

	if _, err := MoveSlot(p, 0, 1, 0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestMoveSlotAcrossDays(t *testing.T) {
	p := domain.Plan{Days: []domain.Day{
		testDay(1, letters("A", "B", "C")...),
		testDay(2, letters("X", "Y")...),
	}}

	tests := []struct {
		to      int
		wantSrc []string
		wantDst []string
	}{
		{0, []string{"A", "C"}, []string{"B", "X", "Y"}},
		{1, []string{"A", "C"}, []string{"X", "B", "Y"}},
		{2, []string{"A", "C"}, []string{"X", "Y", "B"}},
	}
	for _, tt := range tests {
		got, err := MoveSlot(p, 0, 1, 1, tt.to)
		if err != nil {
			t.Fatalf("move to %d: %v", tt.to, err)
		}
		if ids := slotIDs(got.Days[0]); !reflect.DeepEqual(ids, tt.wantSrc) {
			t.Errorf("to %d: source = %v, want %v", tt.to, ids, tt.wantSrc)
		}
		if ids := slotIDs(got.Days[1]); !reflect.DeepEqual(ids, tt.wantDst) {
			t.Errorf("to %d: destination = %v, want %v", tt.to, ids, tt.wantDst)
		}
	}

	if _, err := MoveSlot(p, 0, 1, 1, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}

	off, _ := AddDay(p, OffDay())
	if _, err := MoveSlot(off, 0, 0, 2, 0); !errors.Is(err, ErrOffDay) {
		t.Errorf("err = %v, want ErrOffDay", err)
	}
}

// Every move keeps the slot count and puts the moved slot in exactly one
// place.
func TestMoveSlotConservation(t *testing.T) {
	p := domain.Plan{Days: []domain.Day{
		testDay(1, letters("A", "B", "C")...),
		testDay(2, letters("D")...),
		testDay(3),
	}}
	total := 4

	for fd, d := range p.Days {
		for fi := range d.Slots {
			moved := d.Slots[fi].ID
			for td, dst := range p.Days {
				limit := len(dst.Slots)
				if td == fd {
					limit--
				}
				for to := 0; to <= limit; to++ {
					got, err := MoveSlot(p, fd, fi, td, to)
					if err != nil {
						t.Fatalf("MoveSlot(%d,%d,%d,%d): %v", fd, fi, td, to, err)
					}
					count, seen := 0, 0
					for di, day := range got.Days {
						for si, s := range day.Slots {
							count++
							if s.ID == moved {
								seen++
								if di != td || si != to {
									t.Errorf("MoveSlot(%d,%d,%d,%d): %s at %d/%d", fd, fi, td, to, moved, di, si)
								}
							}
						}
					}
					if count != total || seen != 1 {
						t.Errorf("MoveSlot(%d,%d,%d,%d): count=%d seen=%d", fd, fi, td, to, count, seen)
					}
				}
			}
		}
	}
}

func TestMoveDay(t *testing.T) {
	p := testPlan(4)

	got, err := MoveDay(p, 0, 2)
	if err != nil {
		t.Fatalf("move day: %v", err)
	}
	want := []string{"Day 2", "Day 3", "Day 1", "Day 4"}
	if !reflect.DeepEqual(dayNames(got), want) {
		t.Errorf("names = %v, want %v", dayNames(got), want)
	}
	for i, d := range got.Days {
		if d.Sequence != i+1 {
			t.Errorf("day %d sequence = %d", i, d.Sequence)
		}
	}
	if _, err := MoveDay(p, 0, 4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

// Random add/remove/move sequences never let storage order and sequence
// numbers drift apart.
func TestDayIndexConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := testPlan(3)

	for step := 0; step < 500; step++ {
		var err error
		switch n := len(p.Days); {
		case n == 0 || rng.Intn(3) == 0:
			variants := []DayVariant{Blank(), OffDay()}
			if n > 0 {
				variants = append(variants, CopyOf(rng.Intn(n)))
			}
			p, err = AddDay(p, variants[rng.Intn(len(variants))])
		case rng.Intn(2) == 0:
			p, err = RemoveDay(p, rng.Intn(n))
		default:
			p, err = MoveDay(p, rng.Intn(n), rng.Intn(n))
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}

		ids := map[string]bool{}
		for i, d := range p.Days {
			if d.Sequence != i+1 {
				t.Fatalf("step %d: day %d has sequence %d", step, i, d.Sequence)
			}
			if ids[d.ID] {
				t.Fatalf("step %d: duplicate day ID %s", step, d.ID)
			}
			ids[d.ID] = true
		}
	}
}

func TestHover(t *testing.T) {
	r := NewReducer(Options{})
	s := State{Plan: domain.Plan{Days: []domain.Day{
		testDay(1, letters("A", "B", "C")...),
		testDay(2, letters("X")...),
		testDay(3),
	}}}

	t.Run("non shallow target is ignored", func(t *testing.T) {
		drag := DragItem{Axis: AxisSlot, Day: 0, Slot: 0}
		got, next, err := r.Hover(s, drag, DropTarget{Axis: AxisDay, Day: 1})
		if err != nil {
			t.Fatalf("hover: %v", err)
		}
		if next != drag || !reflect.DeepEqual(got, s) {
			t.Error("hover over nested target changed state")
		}
	})

	t.Run("hovering itself is a no-op", func(t *testing.T) {
		drag := DragItem{Axis: AxisSlot, Day: 0, Slot: 1}
		got, next, _ := r.Hover(s, drag, DropTarget{Axis: AxisSlot, Day: 0, Slot: 1, Shallow: true})
		if next != drag || !reflect.DeepEqual(got, s) {
			t.Error("hover over itself changed state")
		}
	})

	t.Run("drag payload follows the element", func(t *testing.T) {
		drag := DragItem{Axis: AxisSlot, Day: 0, Slot: 0}
		cur := s
		var err error
		for _, to := range []int{1, 2} {
			cur, drag, err = r.Hover(cur, drag, DropTarget{Axis: AxisSlot, Day: 0, Slot: to, Shallow: true})
			if err != nil {
				t.Fatalf("hover %d: %v", to, err)
			}
		}
		if ids := slotIDs(cur.Plan.Days[0]); !reflect.DeepEqual(ids, []string{"B", "C", "A"}) {
			t.Errorf("order = %v, want [B C A]", ids)
		}
		if drag.Slot != 2 {
			t.Errorf("drag slot = %d, want 2", drag.Slot)
		}
	})

	t.Run("slot over empty day appends", func(t *testing.T) {
		drag := DragItem{Axis: AxisSlot, Day: 0, Slot: 1}
		got, next, err := r.Hover(s, drag, DropTarget{Axis: AxisDay, Day: 2, Shallow: true})
		if err != nil {
			t.Fatalf("hover: %v", err)
		}
		if ids := slotIDs(got.Plan.Days[2]); !reflect.DeepEqual(ids, []string{"B"}) {
			t.Errorf("day 3 = %v, want [B]", ids)
		}
		if next != (DragItem{Axis: AxisSlot, Day: 2, Slot: 0}) {
			t.Errorf("next = %+v", next)
		}
	})

	t.Run("slot over off day is a no-op", func(t *testing.T) {
		rest := s
		rest.Plan.Days = append(append([]domain.Day(nil), s.Plan.Days...), domain.Day{ID: "r", Kind: domain.DayRest, Slots: []domain.Slot{}})
		drag := DragItem{Axis: AxisSlot, Day: 0, Slot: 1}
		got, next, err := r.Hover(rest, drag, DropTarget{Axis: AxisDay, Day: 3, Shallow: true})
		if err != nil {
			t.Fatalf("hover: %v", err)
		}
		if next != drag || !reflect.DeepEqual(got, rest) {
			t.Error("hover over rest day changed state")
		}
		// A direct move is still refused.
		if _, err := r.Reduce(rest, MoveSlotCommand(0, 1, 3, 0)); !errors.Is(err, ErrOffDay) {
			t.Errorf("move err = %v, want ErrOffDay", err)
		}
	})

	t.Run("day drag ignores slot targets", func(t *testing.T) {
		drag := DragItem{Axis: AxisDay, Day: 0}
		got, _, _ := r.Hover(s, drag, DropTarget{Axis: AxisSlot, Day: 1, Slot: 0, Shallow: true})
		if !reflect.DeepEqual(got, s) {
			t.Error("day drag over slot changed state")
		}
		got, next, _ := r.Hover(s, drag, DropTarget{Axis: AxisDay, Day: 2, Shallow: true})
		if got.Plan.Days[2].ID != "d1" || next.Day != 2 {
			t.Errorf("day order = %v, next = %+v", dayNames(got.Plan), next)
		}
	})

	t.Run("out of range is reported", func(t *testing.T) {
		drag := DragItem{Axis: AxisSlot, Day: 0, Slot: 7}
		got, next, err := r.Hover(s, drag, DropTarget{Axis: AxisSlot, Day: 0, Slot: 0, Shallow: true})
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("err = %v, want ErrIndexOutOfRange", err)
		}
		if next != drag || !reflect.DeepEqual(got, s) {
			t.Error("failed hover changed state")
		}
	})
}
