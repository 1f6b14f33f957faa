package enums

// NotificationCategory classifies transient user-facing notifications.
type NotificationCategory string

const (
	NotificationError   NotificationCategory = "error"
	NotificationInfo    NotificationCategory = "info"
	NotificationSuccess NotificationCategory = "success"
)

// IsValid reports whether the value matches the canonical category enum.
func (n NotificationCategory) IsValid() bool {
	switch n {
	case NotificationError, NotificationInfo, NotificationSuccess:
		return true
	}
	return false
}
