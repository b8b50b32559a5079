package tasks

import (
	"strings"
	"time"
	"unicode/utf8"

	"taskflow/internal/util/service_errors"
	time_parser "taskflow/internal/util/time"

	"github.com/google/uuid"
)

const maxTitleLength = 255

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return "", service_errors.Validation("title is required")
	}

	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", service_errors.Validation("title must not exceed %d characters", maxTitleLength)
	}

	return title, nil
}

// statusOrDefault treats an empty status as todo.
func statusOrDefault(status TaskStatus) (TaskStatus, error) {
	if status == "" {
		return TaskStatusTodo, nil
	}

	if !status.IsValid() {
		return "", service_errors.Validation("invalid status %q", status)
	}

	return status, nil
}

// priorityOrDefault treats an empty priority as low.
func priorityOrDefault(priority TaskPriority) (TaskPriority, error) {
	if priority == "" {
		return TaskPriorityLow, nil
	}

	if !priority.IsValid() {
		return "", service_errors.Validation("invalid priority %q", priority)
	}

	return priority, nil
}

// parseDueDate parses a calendar date. With notInPast set, dates before
// today are rejected.
func parseDueDate(value string, now time.Time, notInPast bool) (*time.Time, error) {
	dueDate, err := time_parser.ParseDate(value)
	if err != nil {
		return nil, service_errors.Validation("invalid due date: %s", err.Error())
	}

	if notInPast && time_parser.IsBeforeDay(dueDate, now) {
		return nil, service_errors.Validation("due date must be today or later")
	}

	return &dueDate, nil
}

// uniqueAssigneeIDs drops duplicates keeping the first occurrence. Nil ids
// are rejected.
func uniqueAssigneeIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if id == uuid.Nil {
			return nil, service_errors.Validation("assigned user id is required")
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result, nil
}
