package enums

import "fmt"

// DraftStatus describes the lifecycle of a persisted draft order.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusCompleted DraftStatus = "completed"
)

var validDraftStatuses = []DraftStatus{
	DraftStatusDraft,
	DraftStatusCompleted,
}

// IsValid reports whether the value matches the canonical draft status enum.
func (d DraftStatus) IsValid() bool {
	for _, candidate := range validDraftStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDraftStatus converts the raw string to DraftStatus.
func ParseDraftStatus(value string) (DraftStatus, error) {
	for _, candidate := range validDraftStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid draft status %q", value)
}
