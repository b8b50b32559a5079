package notifications

import (
	"fmt"

	"github.com/google/uuid"
)

type TaskRef struct {
	ID          uuid.UUID
	Title       string
	ProjectID   uuid.UUID
	ProjectName string
}

type ActorRef struct {
	ID   uuid.UUID
	Name string
}

// ForTaskCreated notifies every initial assignee, the actor included.
func ForTaskCreated(task TaskRef, actor ActorRef, assigneeIDs []uuid.UUID) []*Outgoing {
	return assignedTo(task, actor, assigneeIDs)
}

// ForStatusChanged notifies the current assignees except the actor.
func ForStatusChanged(task TaskRef, actor ActorRef, oldStatus, newStatus string, assigneeIDs []uuid.UUID) []*Outgoing {
	message := fmt.Sprintf("Task '%s' status changed from %s to %s", task.Title, oldStatus, newStatus)

	return changedFor(task, actor, NotificationKindTaskStatusChanged, oldStatus, newStatus, message, assigneeIDs)
}

// ForPriorityChanged notifies the current assignees except the actor.
func ForPriorityChanged(task TaskRef, actor ActorRef, oldPriority, newPriority string, assigneeIDs []uuid.UUID) []*Outgoing {
	message := fmt.Sprintf("Task '%s' priority changed from %s to %s", task.Title, oldPriority, newPriority)

	return changedFor(task, actor, NotificationKindTaskPriorityChanged, oldPriority, newPriority, message, assigneeIDs)
}

// ForAssigneesReplaced notifies only users present in newIDs and absent from
// oldIDs. Removed and retained assignees hear nothing.
func ForAssigneesReplaced(task TaskRef, actor ActorRef, oldIDs, newIDs []uuid.UUID) []*Outgoing {
	previous := make(map[uuid.UUID]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		previous[id] = struct{}{}
	}

	added := make([]uuid.UUID, 0, len(newIDs))
	for _, id := range newIDs {
		if _, ok := previous[id]; !ok {
			added = append(added, id)
		}
	}

	return assignedTo(task, actor, added)
}

func assignedTo(task TaskRef, actor ActorRef, recipientIDs []uuid.UUID) []*Outgoing {
	payload := basePayload(task, actor)
	payload.Message = fmt.Sprintf("You have been assigned to task: %s", task.Title)

	outgoing := make([]*Outgoing, 0, len(recipientIDs))
	for _, recipientID := range unique(recipientIDs) {
		outgoing = append(outgoing, &Outgoing{
			RecipientID: recipientID,
			Kind:        NotificationKindTaskAssigned,
			Payload:     payload,
		})
	}

	return outgoing
}

func changedFor(
	task TaskRef,
	actor ActorRef,
	kind NotificationKind,
	oldValue, newValue, message string,
	assigneeIDs []uuid.UUID,
) []*Outgoing {
	payload := basePayload(task, actor)
	payload.OldValue = oldValue
	payload.NewValue = newValue
	payload.Message = message

	outgoing := make([]*Outgoing, 0, len(assigneeIDs))
	for _, recipientID := range unique(assigneeIDs) {
		if recipientID == actor.ID {
			continue
		}

		outgoing = append(outgoing, &Outgoing{
			RecipientID: recipientID,
			Kind:        kind,
			Payload:     payload,
		})
	}

	return outgoing
}

func basePayload(task TaskRef, actor ActorRef) Payload {
	return Payload{
		TaskID:      task.ID,
		TaskTitle:   task.Title,
		ProjectID:   task.ProjectID,
		ProjectName: task.ProjectName,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
