package timeline

import (
	"time"

	"order-view-service/internal/model"
)

// DefaultActorName is shown when a track carries no actor.
const DefaultActorName = "System"

type Entry struct {
	Status    model.Status
	Active    bool
	Current   bool
	Timestamp *time.Time
	Note      *string
	ActorName string
}

type Timeline struct {
	Status model.Status
	// Empty is set when the order has no status tracks at all; Entries is
	// nil in that case.
	Empty   bool
	Entries []Entry
}

// Render builds the display timeline of an order.
func Render(o model.Order) Timeline {
	current := model.ParseStatus(string(o.Status))
	if len(o.StatusTracks) == 0 {
		return Timeline{Status: current, Empty: true}
	}
	return Timeline{Status: current, Entries: Entries(o)}
}

// Entries renders one entry per status of the resolved flow, whether or
// not the order has any tracks.
func Entries(o model.Order) []Entry {
	current := model.ParseStatus(string(o.Status))
	flow := ResolveFlow(current)
	index := BuildIndex(o.StatusTracks)

	out := make([]Entry, 0, len(flow))
	for _, s := range flow {
		e := Entry{
			Status:    s,
			Active:    IsStatusActive(s, current),
			Current:   s == current,
			ActorName: DefaultActorName,
		}
		if info, ok := index[s]; ok {
			ts := info.Timestamp
			e.Timestamp = &ts
			if info.Note != "" {
				note := info.Note
				e.Note = &note
			}
			if info.Actor != nil && info.Actor.Name != "" {
				e.ActorName = info.Actor.Name
			}
		}
		out = append(out, e)
	}
	return out
}
