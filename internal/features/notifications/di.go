package notifications

import (
	"taskflow/internal/util/logger"
)

var hub = NewHub(logger.GetLogger())

var notificationRepository = &NotificationRepository{}
var notificationService = &NotificationService{
	notificationRepository: notificationRepository,
	hub:                    hub,
	logger:                 logger.GetLogger(),
}
var notificationController = &NotificationController{
	notificationService: notificationService,
	hub:                 hub,
}

func GetHub() *Hub {
	return hub
}

func GetNotificationService() *NotificationService {
	return notificationService
}

func GetNotificationController() *NotificationController {
	return notificationController
}
