package tasks

import (
	"time"

	"github.com/google/uuid"
)

// FieldChange records a status or priority value before and after a
// transition. Any value may move to any other value.
type FieldChange struct {
	Old string
	New string
}

func (c FieldChange) IsChanged() bool {
	return c.Old != c.New
}

// Transition lists what a general update changed on a task. Nil entries
// were not part of the update.
type Transition struct {
	Status          *FieldChange
	Priority        *FieldChange
	AssigneesBefore []uuid.UUID
	AssigneesAfter  []uuid.UUID
}

func (t *Transition) IsStatusChanged() bool {
	return t.Status != nil && t.Status.IsChanged()
}

func (t *Transition) IsPriorityChanged() bool {
	return t.Priority != nil && t.Priority.IsChanged()
}

func (t *Transition) IsAssigneesReplaced() bool {
	return t.AssigneesAfter != nil
}

// taskPatch is a validated general update. Nil fields stay untouched.
type taskPatch struct {
	title        *string
	description  *string
	status       *TaskStatus
	priority     *TaskPriority
	dueDate      *time.Time
	clearDueDate bool
	assigneeIDs  []uuid.UUID
}

func SetStatus(task *Task, status TaskStatus) FieldChange {
	change := FieldChange{Old: string(task.Status), New: string(status)}
	task.Status = status

	return change
}

func SetPriority(task *Task, priority TaskPriority) FieldChange {
	change := FieldChange{Old: string(task.Priority), New: string(priority)}
	task.Priority = priority

	return change
}

// applyPatch mutates task in memory and reports the transition. currentAssignees
// is the set before the update; it is copied so later changes to the caller's
// slice do not leak into the record.
func applyPatch(task *Task, patch *taskPatch, currentAssignees []uuid.UUID) *Transition {
	transition := &Transition{}

	if patch.title != nil {
		task.Title = *patch.title
	}
	if patch.description != nil {
		task.Description = patch.description
	}
	if patch.clearDueDate {
		task.DueDate = nil
	} else if patch.dueDate != nil {
		task.DueDate = patch.dueDate
	}

	if patch.status != nil {
		change := SetStatus(task, *patch.status)
		transition.Status = &change
	}
	if patch.priority != nil {
		change := SetPriority(task, *patch.priority)
		transition.Priority = &change
	}

	if patch.assigneeIDs != nil {
		transition.AssigneesBefore = append([]uuid.UUID{}, currentAssignees...)
		transition.AssigneesAfter = append([]uuid.UUID{}, patch.assigneeIDs...)
	}

	return transition
}
