package notifications

type NotificationKind string

const (
	NotificationKindTaskAssigned        NotificationKind = "task_assigned"
	NotificationKindTaskStatusChanged   NotificationKind = "task_status_changed"
	NotificationKindTaskPriorityChanged NotificationKind = "task_priority_changed"
)

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationKindTaskAssigned, NotificationKindTaskStatusChanged, NotificationKindTaskPriorityChanged:
		return true
	default:
		return false
	}
}
