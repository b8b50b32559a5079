package tasks

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"taskflow/internal/features/access"
	"taskflow/internal/features/audit_logs"
	"taskflow/internal/features/notifications"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepository     *TaskRepository
	projectReader      ProjectReader
	userReader         UserReader
	notificationSender NotificationSender
	taskAuditLog       TaskAuditLog
	logger             *slog.Logger

	commentsReader        TaskCommentsReader
	taskDeletionListeners []TaskDeletionListener
}

var forbiddenMessages = map[access.Action]string{
	access.ActionViewProject:      "you are not a member of the task's project",
	access.ActionCreateTask:       "only project owner or manager can create tasks",
	access.ActionUpdateTaskFields: "insufficient permissions to update task",
	access.ActionUpdateTaskStatus: "only project owner, manager or task assignee can change the task",
	access.ActionReassignTask:     "only project owner or manager can reassign tasks",
	access.ActionDeleteTask:       "only project owner can delete tasks",
}

func (s *TaskService) SetCommentsReader(reader TaskCommentsReader) {
	s.commentsReader = reader
}

func (s *TaskService) AddTaskDeletionListener(listener TaskDeletionListener) {
	s.taskDeletionListeners = append(s.taskDeletionListeners, listener)
}

func (s *TaskService) CreateTask(
	request *CreateTaskRequestDTO,
	actor *users_models.User,
) (*TaskResponseDTO, error) {
	if request.ProjectID == uuid.Nil {
		return nil, service_errors.Validation("project id is required")
	}

	project, err := s.projectReader.GetProjectByID(request.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, service_errors.Validation("project does not exist")
	}

	role, err := s.projectReader.GetUserProjectRole(project.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionCreateTask, access.Facts{}) {
		return nil, service_errors.Forbidden(forbiddenMessages[access.ActionCreateTask])
	}

	title, err := validateTitle(request.Title)
	if err != nil {
		return nil, err
	}

	status, err := statusOrDefault(request.Status)
	if err != nil {
		return nil, err
	}

	priority, err := priorityOrDefault(request.Priority)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if request.DueDate != nil && strings.TrimSpace(*request.DueDate) != "" {
		dueDate, err = parseDueDate(*request.DueDate, time.Now().UTC(), true)
		if err != nil {
			return nil, err
		}
	}

	assigneeIDs, err := s.resolveAssignees(request.AssignedUsers)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Title:       title,
		Description: request.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}

	if err := s.taskRepository.CreateTaskWithAssignees(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notificationSender.Deliver(notifications.ForTaskCreated(
		taskRefOf(task, project.Name),
		actorRefOf(actor),
		assigneeIDs,
	))

	s.taskAuditLog.WriteTaskAuditLog(fmt.Sprintf("Task created: %s", task.Title), &actor.ID, project.ID, task.ID)

	return s.buildResponse(task, false)
}

func (s *TaskService) GetTask(taskID uuid.UUID, actor *users_models.User) (*TaskResponseDTO, error) {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.authorize(task, actor, access.ActionViewProject); err != nil {
		return nil, err
	}

	return s.buildResponse(task, true)
}

// GetTasks lists tasks of every project the actor belongs to.
func (s *TaskService) GetTasks(
	request *GetTasksRequest,
	actor *users_models.User,
) (*ListTasksResponseDTO, error) {
	if request.Status != nil && !request.Status.IsValid() {
		return nil, service_errors.Validation("invalid status %q", *request.Status)
	}
	if request.Priority != nil && !request.Priority.IsValid() {
		return nil, service_errors.Validation("invalid priority %q", *request.Priority)
	}

	tasks, err := s.taskRepository.GetTasksForUser(actor.ID, request)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	responses, err := s.buildResponses(tasks)
	if err != nil {
		return nil, err
	}

	return &ListTasksResponseDTO{Tasks: responses}, nil
}

// UpdateTask applies a general update. Owners and managers may change every
// field. A member assigned to the task may change only its status and
// priority. Notifications go out only for values that actually changed.
func (s *TaskService) UpdateTask(
	taskID uuid.UUID,
	request *UpdateTaskRequestDTO,
	actor *users_models.User,
) (*TaskResponseDTO, error) {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return nil, err
	}

	role, assigneeIDs, err := s.authorize(task, actor, access.ActionUpdateTaskFields)
	if err != nil {
		return nil, err
	}

	canManage := access.CanPerform(role, access.ActionReassignTask, access.Facts{})

	patch, err := s.buildPatch(request, canManage)
	if err != nil {
		return nil, err
	}

	transition := applyPatch(task, patch, assigneeIDs)

	if err := s.taskRepository.UpdateTask(task, patch.assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	currentAssignees := assigneeIDs
	if transition.IsAssigneesReplaced() {
		currentAssignees = transition.AssigneesAfter
	}

	ref := s.taskRef(task)
	actorRef := actorRefOf(actor)

	var outgoing []*notifications.Outgoing
	if transition.IsStatusChanged() {
		outgoing = append(outgoing, notifications.ForStatusChanged(
			ref, actorRef, transition.Status.Old, transition.Status.New, currentAssignees)...)
	}
	if transition.IsPriorityChanged() {
		outgoing = append(outgoing, notifications.ForPriorityChanged(
			ref, actorRef, transition.Priority.Old, transition.Priority.New, currentAssignees)...)
	}
	if transition.IsAssigneesReplaced() {
		outgoing = append(outgoing, notifications.ForAssigneesReplaced(
			ref, actorRef, transition.AssigneesBefore, transition.AssigneesAfter)...)
	}
	s.notificationSender.Deliver(outgoing)

	s.taskAuditLog.WriteTaskAuditLog(fmt.Sprintf("Task updated: %s", task.Title), &actor.ID, task.ProjectID, task.ID)

	return s.buildResponse(task, false)
}

// UpdateTaskStatus sets the status and notifies the other assignees, even
// when the value did not change.
func (s *TaskService) UpdateTaskStatus(
	taskID uuid.UUID,
	status TaskStatus,
	actor *users_models.User,
) (*TaskResponseDTO, error) {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return nil, err
	}

	_, assigneeIDs, err := s.authorize(task, actor, access.ActionUpdateTaskStatus)
	if err != nil {
		return nil, err
	}

	if !status.IsValid() {
		return nil, service_errors.Validation("invalid status %q", status)
	}

	change := SetStatus(task, status)

	if err := s.taskRepository.UpdateTask(task, nil); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.notificationSender.Deliver(notifications.ForStatusChanged(
		s.taskRef(task), actorRefOf(actor), change.Old, change.New, assigneeIDs))

	s.taskAuditLog.WriteTaskAuditLog(
		fmt.Sprintf("Task status changed: %s (%s -> %s)", task.Title, change.Old, change.New),
		&actor.ID,
		task.ProjectID,
		task.ID,
	)

	return s.buildResponse(task, false)
}

// UpdateTaskPriority sets the priority and notifies the other assignees,
// even when the value did not change.
func (s *TaskService) UpdateTaskPriority(
	taskID uuid.UUID,
	priority TaskPriority,
	actor *users_models.User,
) (*TaskResponseDTO, error) {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return nil, err
	}

	_, assigneeIDs, err := s.authorize(task, actor, access.ActionUpdateTaskStatus)
	if err != nil {
		return nil, err
	}

	if !priority.IsValid() {
		return nil, service_errors.Validation("invalid priority %q", priority)
	}

	change := SetPriority(task, priority)

	if err := s.taskRepository.UpdateTask(task, nil); err != nil {
		return nil, fmt.Errorf("failed to update task priority: %w", err)
	}

	s.notificationSender.Deliver(notifications.ForPriorityChanged(
		s.taskRef(task), actorRefOf(actor), change.Old, change.New, assigneeIDs))

	s.taskAuditLog.WriteTaskAuditLog(
		fmt.Sprintf("Task priority changed: %s (%s -> %s)", task.Title, change.Old, change.New),
		&actor.ID,
		task.ProjectID,
		task.ID,
	)

	return s.buildResponse(task, false)
}

// ReplaceTaskAssignees swaps the whole assignee set and notifies only users
// that were not assigned before.
func (s *TaskService) ReplaceTaskAssignees(
	taskID uuid.UUID,
	request *UpdateTaskAssigneesRequestDTO,
	actor *users_models.User,
) (*TaskResponseDTO, error) {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return nil, err
	}

	_, previousIDs, err := s.authorize(task, actor, access.ActionReassignTask)
	if err != nil {
		return nil, err
	}

	if request.AssignedUsers == nil {
		return nil, service_errors.Validation("assigned users are required")
	}

	assigneeIDs, err := s.resolveAssignees(request.AssignedUsers)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepository.ReplaceAssignees(task.ID, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to replace task assignees: %w", err)
	}

	s.notificationSender.Deliver(notifications.ForAssigneesReplaced(
		s.taskRef(task), actorRefOf(actor), previousIDs, assigneeIDs))

	s.taskAuditLog.WriteTaskAuditLog(fmt.Sprintf("Task assignees updated: %s", task.Title), &actor.ID, task.ProjectID, task.ID)

	return s.buildResponse(task, false)
}

func (s *TaskService) DeleteTask(taskID uuid.UUID, actor *users_models.User) error {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return err
	}

	if _, _, err := s.authorize(task, actor, access.ActionDeleteTask); err != nil {
		return err
	}

	for _, listener := range s.taskDeletionListeners {
		if err := listener.OnBeforeTasksDeletion([]uuid.UUID{task.ID}); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
	}

	if err := s.taskRepository.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.taskAuditLog.WriteTaskAuditLog(fmt.Sprintf("Task deleted: %s", task.Title), &actor.ID, task.ProjectID, task.ID)

	return nil
}

// GetTaskAuditLogs lists a task's history to anyone who may view the task.
func (s *TaskService) GetTaskAuditLogs(
	taskID uuid.UUID,
	actor *users_models.User,
	request *audit_logs.GetAuditLogsRequest,
) (*audit_logs.GetAuditLogsResponse, error) {
	task, err := s.getExistingTask(taskID)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.authorize(task, actor, access.ActionViewProject); err != nil {
		return nil, err
	}

	return s.taskAuditLog.GetTaskAuditLogs(task.ID, request)
}

// OnBeforeProjectDeletion removes the project's tasks with their assignees
// and everything registered listeners attach to them.
func (s *TaskService) OnBeforeProjectDeletion(projectID uuid.UUID) error {
	taskIDs, err := s.taskRepository.GetTaskIDsByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to get project tasks: %w", err)
	}

	if len(taskIDs) > 0 {
		for _, listener := range s.taskDeletionListeners {
			if err := listener.OnBeforeTasksDeletion(taskIDs); err != nil {
				return err
			}
		}
	}

	return s.taskRepository.DeleteTasksByProject(projectID)
}

// GetTaskByID returns nil when the task does not exist.
func (s *TaskService) GetTaskByID(taskID uuid.UUID) (*Task, error) {
	return s.taskRepository.GetTaskByID(taskID)
}

func (s *TaskService) getExistingTask(taskID uuid.UUID) (*Task, error) {
	task, err := s.taskRepository.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if task == nil {
		return nil, service_errors.NotFound("task not found")
	}

	return task, nil
}

// authorize resolves the actor's role in the task's project and checks the
// action. It returns the role and the current assignee ids for later use.
func (s *TaskService) authorize(
	task *Task,
	actor *users_models.User,
	action access.Action,
) (*users_enums.ProjectRole, []uuid.UUID, error) {
	role, err := s.projectReader.GetUserProjectRole(task.ProjectID, actor.ID)
	if err != nil {
		return nil, nil, err
	}

	assigneeIDs, err := s.taskRepository.GetAssigneeIDs(task.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get task assignees: %w", err)
	}

	facts := access.Facts{
		IsAssignee:    slices.Contains(assigneeIDs, actor.ID),
		IsGlobalAdmin: actor.IsGlobalAdmin(),
	}

	if !access.CanPerform(role, action, facts) {
		return nil, nil, service_errors.Forbidden(forbiddenMessages[action])
	}

	return role, assigneeIDs, nil
}

func (s *TaskService) buildPatch(request *UpdateTaskRequestDTO, canManage bool) (*taskPatch, error) {
	if !canManage {
		if request.touchesDetails() {
			return nil, service_errors.Forbidden("members can only change status and priority of their tasks")
		}
		if request.AssignedUsers != nil {
			return nil, service_errors.Forbidden(forbiddenMessages[access.ActionReassignTask])
		}
	}

	patch := &taskPatch{description: request.Description}

	if request.Title != nil {
		title, err := validateTitle(*request.Title)
		if err != nil {
			return nil, err
		}
		patch.title = &title
	}

	if request.Status != nil {
		if !request.Status.IsValid() {
			return nil, service_errors.Validation("invalid status %q", *request.Status)
		}
		patch.status = request.Status
	}

	if request.Priority != nil {
		if !request.Priority.IsValid() {
			return nil, service_errors.Validation("invalid priority %q", *request.Priority)
		}
		patch.priority = request.Priority
	}

	if request.DueDate != nil {
		if strings.TrimSpace(*request.DueDate) == "" {
			patch.clearDueDate = true
		} else {
			dueDate, err := parseDueDate(*request.DueDate, time.Now().UTC(), false)
			if err != nil {
				return nil, err
			}
			patch.dueDate = dueDate
		}
	}

	if request.AssignedUsers != nil {
		assigneeIDs, err := s.resolveAssignees(request.AssignedUsers)
		if err != nil {
			return nil, err
		}
		patch.assigneeIDs = assigneeIDs
	}

	return patch, nil
}

// resolveAssignees dedupes ids and checks every user exists.
func (s *TaskService) resolveAssignees(ids []uuid.UUID) ([]uuid.UUID, error) {
	assigneeIDs, err := uniqueAssigneeIDs(ids)
	if err != nil {
		return nil, err
	}

	if len(assigneeIDs) == 0 {
		return assigneeIDs, nil
	}

	users, err := s.userReader.GetUsersByIDs(assigneeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get assigned users: %w", err)
	}

	existing := make(map[uuid.UUID]struct{}, len(users))
	for _, user := range users {
		existing[user.ID] = struct{}{}
	}

	for _, id := range assigneeIDs {
		if _, ok := existing[id]; !ok {
			return nil, service_errors.Validation("assigned user %s does not exist", id)
		}
	}

	return assigneeIDs, nil
}

func (s *TaskService) taskRef(task *Task) notifications.TaskRef {
	projectName := ""

	project, err := s.projectReader.GetProjectByID(task.ProjectID)
	if err != nil {
		s.logger.Warn("failed to load project for notification", "projectId", task.ProjectID, "error", err)
	} else if project != nil {
		projectName = project.Name
	}

	return taskRefOf(task, projectName)
}

func (s *TaskService) buildResponse(task *Task, withComments bool) (*TaskResponseDTO, error) {
	responses, err := s.buildResponses([]*Task{task})
	if err != nil {
		return nil, err
	}

	response := responses[0]

	if withComments && s.commentsReader != nil {
		comments, err := s.commentsReader.GetTaskComments(task.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get task comments: %w", err)
		}
		response.Comments = comments
	}

	return response, nil
}

func (s *TaskService) buildResponses(tasks []*Task) ([]*TaskResponseDTO, error) {
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	projectIDs := make([]uuid.UUID, 0)
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
		if !slices.Contains(projectIDs, task.ProjectID) {
			projectIDs = append(projectIDs, task.ProjectID)
		}
	}

	assignees, err := s.taskRepository.GetAssignees(taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get task assignees: %w", err)
	}

	projectNames, err := s.taskRepository.GetProjectNames(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get project names: %w", err)
	}

	commentCounts := map[uuid.UUID]int64{}
	if s.commentsReader != nil && len(taskIDs) > 0 {
		commentCounts, err = s.commentsReader.CountTaskComments(taskIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to count task comments: %w", err)
		}
	}

	responses := make([]*TaskResponseDTO, 0, len(tasks))
	for _, task := range tasks {
		taskAssignees := assignees[task.ID]
		if taskAssignees == nil {
			taskAssignees = []TaskUserDTO{}
		}

		responses = append(responses, &TaskResponseDTO{
			ID:           task.ID,
			ProjectID:    task.ProjectID,
			ProjectName:  projectNames[task.ProjectID],
			Title:        task.Title,
			Description:  task.Description,
			Status:       task.Status,
			Priority:     task.Priority,
			DueDate:      task.DueDate,
			CreatedAt:    task.CreatedAt,
			UpdatedAt:    task.UpdatedAt,
			Assignees:    taskAssignees,
			CommentCount: commentCounts[task.ID],
		})
	}

	return responses, nil
}

func taskRefOf(task *Task, projectName string) notifications.TaskRef {
	return notifications.TaskRef{
		ID:          task.ID,
		Title:       task.Title,
		ProjectID:   task.ProjectID,
		ProjectName: projectName,
	}
}

func actorRefOf(actor *users_models.User) notifications.ActorRef {
	return notifications.ActorRef{ID: actor.ID, Name: actor.Name}
}
