package notifications

import (
	"github.com/google/uuid"
)

// Payload is what a recipient sees. OldValue and NewValue are set for status
// and priority changes only.
type Payload struct {
	TaskID      uuid.UUID `json:"taskId"`
	TaskTitle   string    `json:"taskTitle"`
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectName string    `json:"projectName"`
	OldValue    string    `json:"oldValue,omitempty"`
	NewValue    string    `json:"newValue,omitempty"`
	ActorID     uuid.UUID `json:"actorId"`
	ActorName   string    `json:"actorName"`
	Message     string    `json:"message"`
}

// Outgoing is one notification decided by the dispatcher and not yet
// delivered.
type Outgoing struct {
	RecipientID uuid.UUID
	Kind        NotificationKind
	Payload     Payload
}

type GetNotificationsRequest struct {
	Limit      int  `form:"limit"      json:"limit"`
	Offset     int  `form:"offset"     json:"offset"`
	UnreadOnly bool `form:"unreadOnly" json:"unreadOnly"`
}

type GetNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int64           `json:"unreadCount"`
}

type MarkAllAsReadResponse struct {
	Updated int64 `json:"updated"`
}

// PushMessage is the frame written to realtime subscribers.
type PushMessage struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	Message      string        `json:"message,omitempty"`
}
