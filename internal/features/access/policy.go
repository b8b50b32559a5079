package access

import (
	users_enums "taskflow/internal/features/users/enums"
)

type Action string

const (
	ActionCreateTask Action = "create_task"
	// title, description, due date, status and priority through the general update
	ActionUpdateTaskFields Action = "update_task_fields"
	ActionReassignTask     Action = "reassign_task"
	// dedicated status or priority endpoint
	ActionUpdateTaskStatus Action = "update_task_status"
	ActionDeleteTask       Action = "delete_task"
	ActionViewProject      Action = "view_project"
	ActionComment          Action = "comment"
	ActionUpdateProject    Action = "update_project"
	ActionDeleteProject    Action = "delete_project"
	ActionDeleteComment    Action = "delete_comment"
)

// Facts are the actor attributes some actions depend on besides the role.
type Facts struct {
	IsAssignee    bool
	IsAuthor      bool
	IsGlobalAdmin bool
}

// CanPerform decides whether an actor holding role in a project may perform
// action. A nil role means the actor is not a member of the project, which
// denies everything except project deletion by a global admin.
func CanPerform(role *users_enums.ProjectRole, action Action, facts Facts) bool {
	if role == nil {
		return action == ActionDeleteProject && facts.IsGlobalAdmin
	}

	switch action {
	case ActionCreateTask, ActionReassignTask, ActionUpdateProject:
		return isAtLeastManager(*role)

	case ActionUpdateTaskFields, ActionUpdateTaskStatus:
		return isAtLeastManager(*role) || (*role == users_enums.ProjectRoleMember && facts.IsAssignee)

	case ActionDeleteTask:
		return *role == users_enums.ProjectRoleOwner

	case ActionViewProject, ActionComment:
		return role.IsValid()

	case ActionDeleteProject:
		return *role == users_enums.ProjectRoleOwner || facts.IsGlobalAdmin

	case ActionDeleteComment:
		return facts.IsAuthor || *role == users_enums.ProjectRoleOwner

	default:
		return false
	}
}

func isAtLeastManager(role users_enums.ProjectRole) bool {
	switch role {
	case users_enums.ProjectRoleOwner, users_enums.ProjectRoleManager:
		return true
	case users_enums.ProjectRoleMember:
		return false
	default:
		return false
	}
}
