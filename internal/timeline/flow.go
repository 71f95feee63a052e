package timeline

import "order-view-service/internal/model"

// canonicalFlow is the happy path every non-cancelled order walks through.
var canonicalFlow = []model.Status{
	model.StatusPending,
	model.StatusProcessing,
	model.StatusShipped,
	model.StatusDelivered,
}

var cancelledFlow = []model.Status{
	model.StatusPending,
	model.StatusCancelled,
}

func flowIndex(s model.Status) int {
	for i, v := range canonicalFlow {
		if v == s {
			return i
		}
	}
	return -1
}

// ResolveFlow returns the statuses to display for an order currently in
// current. Statuses outside the canonical flow yield a single entry.
func ResolveFlow(current model.Status) []model.Status {
	switch current {
	case model.StatusCancelled:
		return append([]model.Status(nil), cancelledFlow...)
	case model.StatusPending, model.StatusProcessing, model.StatusShipped, model.StatusDelivered:
		idx := flowIndex(current)
		return append([]model.Status(nil), canonicalFlow[:idx+1]...)
	default:
		return []model.Status{current}
	}
}

// IsStatusActive reports whether status should be highlighted for an
// order currently in current.
func IsStatusActive(status, current model.Status) bool {
	switch current {
	case model.StatusCancelled:
		return status == model.StatusPending || status == model.StatusCancelled
	default:
		si, ci := flowIndex(status), flowIndex(current)
		if si < 0 || ci < 0 {
			return false
		}
		return si <= ci
	}
}
