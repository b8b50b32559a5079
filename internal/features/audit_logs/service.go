package audit_logs

import (
	"fmt"
	"log/slog"
	"time"

	user_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository
	logger             *slog.Logger
}

// WriteAuditLog records an entry and never fails the caller.
func (s *AuditLogService) WriteAuditLog(
	message string,
	userID *uuid.UUID,
	projectID *uuid.UUID,
) {
	s.write(&AuditLog{UserID: userID, ProjectID: projectID, Message: message})
}

// WriteTaskAuditLog records an entry about a task so it shows up in both
// the project's and the task's history.
func (s *AuditLogService) WriteTaskAuditLog(
	message string,
	userID *uuid.UUID,
	projectID uuid.UUID,
	taskID uuid.UUID,
) {
	s.write(&AuditLog{UserID: userID, ProjectID: &projectID, TaskID: &taskID, Message: message})
}

func (s *AuditLogService) GetGlobalAuditLogs(
	user *user_models.User,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	if !user.IsGlobalAdmin() {
		return nil, service_errors.Forbidden("only administrators can view global audit logs")
	}

	return s.list(&auditLogFilter{BeforeDate: request.BeforeDate}, request)
}

func (s *AuditLogService) GetUserAuditLogs(
	targetUserID uuid.UUID,
	user *user_models.User,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	// users see their own entries, admins see anyone's
	if !user.IsGlobalAdmin() && user.ID != targetUserID {
		return nil, service_errors.Forbidden("insufficient permissions to view user audit logs")
	}

	return s.list(&auditLogFilter{UserID: &targetUserID, BeforeDate: request.BeforeDate}, request)
}

// GetProjectAuditLogs expects the caller to have checked project access.
func (s *AuditLogService) GetProjectAuditLogs(
	projectID uuid.UUID,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	return s.list(&auditLogFilter{ProjectID: &projectID, BeforeDate: request.BeforeDate}, request)
}

// GetTaskAuditLogs expects the caller to have checked task access.
func (s *AuditLogService) GetTaskAuditLogs(
	taskID uuid.UUID,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	return s.list(&auditLogFilter{TaskID: &taskID, BeforeDate: request.BeforeDate}, request)
}

func (s *AuditLogService) write(auditLog *AuditLog) {
	auditLog.CreatedAt = time.Now().UTC()

	if err := s.auditLogRepository.Create(auditLog); err != nil {
		s.logger.Error("failed to create audit log", "message", auditLog.Message, "error", err)
	}
}

func (s *AuditLogService) list(filter *auditLogFilter, request *GetAuditLogsRequest) (*GetAuditLogsResponse, error) {
	limit, offset := normalizePage(request)

	auditLogs, err := s.auditLogRepository.Find(filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	total, err := s.auditLogRepository.Count(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	return &GetAuditLogsResponse{
		AuditLogs: auditLogs,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func normalizePage(request *GetAuditLogsRequest) (int, int) {
	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	return limit, max(request.Offset, 0)
}
