package notifications

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationService struct {
	notificationRepository *NotificationRepository
	// nil disables realtime push; the inbox is still written
	hub    *Hub
	logger *slog.Logger
}

func (s *NotificationService) SetRealtimeHub(hub *Hub) {
	s.hub = hub
}

// Deliver persists the notifications to their recipients' inboxes and pushes
// them to connected clients. Failures are logged and never returned, so the
// state change that triggered them stands.
func (s *NotificationService) Deliver(outgoing []*Outgoing) {
	if len(outgoing) == 0 {
		return
	}

	now := time.Now().UTC()
	records := make([]*Notification, 0, len(outgoing))

	for _, o := range outgoing {
		payload, err := json.Marshal(o.Payload)
		if err != nil {
			s.logger.Error("failed to marshal notification payload",
				"recipientId", o.RecipientID,
				"kind", o.Kind,
				"error", err)
			continue
		}

		records = append(records, &Notification{
			ID:          uuid.New(),
			RecipientID: o.RecipientID,
			Kind:        o.Kind,
			Payload:     datatypes.JSON(payload),
			CreatedAt:   now,
		})
	}

	if err := s.notificationRepository.CreateBatch(records); err != nil {
		s.logger.Error("failed to persist notifications", "count", len(records), "error", err)
		return
	}

	if s.hub == nil {
		return
	}

	for _, record := range records {
		s.hub.Push(record.RecipientID, &PushMessage{Type: "notification", Notification: record})
	}
}

func (s *NotificationService) GetNotifications(
	user *users_models.User,
	request *GetNotificationsRequest,
) (*GetNotificationsResponse, error) {
	limit := request.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	offset := max(request.Offset, 0)

	notifications, err := s.notificationRepository.GetByRecipient(user.ID, limit, offset, request.UnreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	unreadCount, err := s.notificationRepository.CountUnread(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &GetNotificationsResponse{
		Notifications: notifications,
		UnreadCount:   unreadCount,
	}, nil
}

// MarkAsRead marks one notification of the user as read. Notifications of
// other users look missing.
func (s *NotificationService) MarkAsRead(notificationID uuid.UUID, user *users_models.User) error {
	notification, err := s.notificationRepository.GetByIDAndRecipient(notificationID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification == nil {
		return service_errors.NotFound("notification not found")
	}

	if notification.IsRead() {
		return nil
	}

	if err := s.notificationRepository.MarkAsRead(notificationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

func (s *NotificationService) MarkAllAsRead(user *users_models.User) (*MarkAllAsReadResponse, error) {
	updated, err := s.notificationRepository.MarkAllAsRead(user.ID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return &MarkAllAsReadResponse{Updated: updated}, nil
}
