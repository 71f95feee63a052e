package timeline

import (
	"time"

	"order-view-service/internal/model"
)

// TrackInfo is the most recent transition recorded for a status.
type TrackInfo struct {
	Timestamp time.Time
	Note      string
	Actor     *model.Actor
}

// BuildIndex maps each normalized status to its latest track. Later
// records overwrite earlier ones for the same status.
func BuildIndex(tracks []model.StatusTrack) map[model.Status]TrackInfo {
	index := make(map[model.Status]TrackInfo, len(tracks))
	for _, t := range tracks {
		index[model.ParseStatus(string(t.Status))] = TrackInfo{
			Timestamp: t.CreatedAt,
			Note:      t.Note,
			Actor:     t.Actor,
		}
	}
	return index
}
