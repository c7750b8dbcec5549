package editor

import "alcyxob/coach-dashboard/internal/domain"

// Completion counts completed items out of a total.
type Completion struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Percent is 0 for an empty total.
func (c Completion) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Done) * 100 / float64(c.Total)
}

// Full reports whether every item is completed. Empty is never full.
func (c Completion) Full() bool {
	return c.Total > 0 && c.Done == c.Total
}

func (c Completion) add(o Completion) Completion {
	return Completion{Done: c.Done + o.Done, Total: c.Total + o.Total}
}

// itemDone prefers what the client logged over the plan's own flag.
func itemDone(it domain.Item, log domain.SlotLog, i int) bool {
	if i < len(log.Items) && log.Items[i].Completed {
		return true
	}
	return it.Completed
}

// SlotProgress folds the items of one slot.
func SlotProgress(s domain.Slot, t domain.Tracking) Completion {
	log := t[s.ID]
	c := Completion{Total: len(s.Items)}
	for i, it := range s.Items {
		if itemDone(it, log, i) {
			c.Done++
		}
	}
	return c
}

// DayProgress folds every item of every slot in a day.
func DayProgress(d domain.Day, t domain.Tracking) Completion {
	var c Completion
	for _, s := range d.Slots {
		c = c.add(SlotProgress(s, t))
	}
	return c
}

// DayMacros sums the first option of each meal slot, the one a client
// follows unless they pick an alternative.
func DayMacros(d domain.Day) domain.Macros {
	var m domain.Macros
	for _, s := range d.Slots {
		if len(s.Items) == 0 || s.Items[0].Macros == nil {
			continue
		}
		m = m.Add(*s.Items[0].Macros)
	}
	return m
}

// slotVolume sums weight x reps over completed sets, logged numbers taking
// precedence over prescribed ones.
func slotVolume(s domain.Slot, t domain.Tracking) float64 {
	log := t[s.ID]
	var v float64
	for i, it := range s.Items {
		if !itemDone(it, log, i) {
			continue
		}
		weight, reps := it.Weight, it.Reps
		if i < len(log.Items) {
			if log.Items[i].Weight > 0 {
				weight = log.Items[i].Weight
			}
			if log.Items[i].Reps > 0 {
				reps = log.Items[i].Reps
			}
		}
		v += weight * float64(reps)
	}
	return v
}

// DayStat is one row of the summary.
type DayStat struct {
	DayID    string         `json:"dayId"`
	Name     string         `json:"name"`
	Kind     domain.DayKind `json:"kind"`
	Progress Completion     `json:"progress"`
	Percent  float64        `json:"percent"`
	Macros   domain.Macros  `json:"macros"`
	Volume   float64        `json:"volume"`
}

// Summary is the plan-wide projection shown next to the editor.
type Summary struct {
	TotalItems     int       `json:"totalItems"`
	CompletedItems int       `json:"completedItems"`
	TotalSlots     int       `json:"totalSlots"`
	CompletedSlots int       `json:"completedSlots"`
	Percent        float64   `json:"percent"`
	Volume         float64   `json:"volume"`
	Days           []DayStat `json:"days"`
}

// Summarize computes the summary from scratch. It is cheap for plan sizes
// seen in practice and is never cached across edits.
func Summarize(p domain.Plan, t domain.Tracking) Summary {
	sum := Summary{Days: make([]DayStat, 0, len(p.Days))}
	for _, d := range p.Days {
		row := DayStat{DayID: d.ID, Name: d.Name, Kind: d.Kind, Macros: DayMacros(d)}
		for _, s := range d.Slots {
			c := SlotProgress(s, t)
			row.Progress = row.Progress.add(c)
			row.Volume += slotVolume(s, t)
			sum.TotalSlots++
			if c.Full() {
				sum.CompletedSlots++
			}
		}
		row.Percent = row.Progress.Percent()
		sum.TotalItems += row.Progress.Total
		sum.CompletedItems += row.Progress.Done
		sum.Volume += row.Volume
		sum.Days = append(sum.Days, row)
	}
	sum.Percent = Completion{Done: sum.CompletedItems, Total: sum.TotalItems}.Percent()
	return sum
}
