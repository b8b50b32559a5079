package audit_logs

import (
	"strings"

	"taskflow/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const selectAuditLogsSQL = `
	SELECT
		al.id,
		al.user_id,
		al.project_id,
		al.task_id,
		al.message,
		al.created_at,
		u.email as user_email,
		u.name as user_name,
		p.name as project_name
	FROM audit_logs al
	LEFT JOIN users u ON al.user_id = u.id
	LEFT JOIN projects p ON al.project_id = p.id`

type AuditLogRepository struct{}

func (r *AuditLogRepository) Create(auditLog *AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	return storage.GetDb().Create(auditLog).Error
}

// Find lists matching entries newest first.
func (r *AuditLogRepository) Find(filter *auditLogFilter, limit, offset int) ([]*AuditLogDTO, error) {
	auditLogs := make([]*AuditLogDTO, 0)

	where, args := filter.whereClause("al.")

	sql := selectAuditLogsSQL + where + " ORDER BY al.created_at DESC, al.id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	err := storage.GetDb().Raw(sql, args...).Scan(&auditLogs).Error

	return auditLogs, err
}

func (r *AuditLogRepository) Count(filter *auditLogFilter) (int64, error) {
	var count int64

	query := storage.GetDb().Model(&AuditLog{})
	query = filter.apply(query)

	err := query.Count(&count).Error

	return count, err
}

func (f *auditLogFilter) conditions(prefix string) ([]string, []any) {
	var conditions []string
	var args []any

	if f.UserID != nil {
		conditions = append(conditions, prefix+"user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.ProjectID != nil {
		conditions = append(conditions, prefix+"project_id = ?")
		args = append(args, *f.ProjectID)
	}
	if f.TaskID != nil {
		conditions = append(conditions, prefix+"task_id = ?")
		args = append(args, *f.TaskID)
	}
	if f.BeforeDate != nil {
		conditions = append(conditions, prefix+"created_at < ?")
		args = append(args, *f.BeforeDate)
	}

	return conditions, args
}

func (f *auditLogFilter) whereClause(prefix string) (string, []any) {
	conditions, args := f.conditions(prefix)
	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (f *auditLogFilter) apply(query *gorm.DB) *gorm.DB {
	conditions, args := f.conditions("")
	for i, condition := range conditions {
		query = query.Where(condition, args[i])
	}

	return query
}
