package projects_services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskflow/internal/features/access"
	audit_logs "taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_interfaces "taskflow/internal/features/projects/interfaces"
	projects_models "taskflow/internal/features/projects/models"
	projects_repositories "taskflow/internal/features/projects/repositories"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
)

const maxProjectNameLength = 255

type ProjectService struct {
	projectRepository        *projects_repositories.ProjectRepository
	membershipRepository     *projects_repositories.MembershipRepository
	membershipService        *MembershipService
	auditLogService          *audit_logs.AuditLogService
	projectDeletionListeners []projects_interfaces.ProjectDeletionListener
}

func (s *ProjectService) AddProjectDeletionListener(listener projects_interfaces.ProjectDeletionListener) {
	s.projectDeletionListeners = append(s.projectDeletionListeners, listener)
}

func (s *ProjectService) CreateProject(
	request *projects_dto.CreateProjectRequestDTO,
	creator *users_models.User,
) (*projects_dto.ProjectDetailsResponseDTO, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, service_errors.Validation("project name is required")
	}

	roles, err := s.membershipService.ResolveMembershipRoles(creator.ID, request.Members)
	if err != nil {
		return nil, err
	}

	project := &projects_models.Project{
		ID:          uuid.New(),
		Name:        name,
		Description: request.Description,
		CreatorID:   creator.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.projectRepository.CreateProjectWithMembers(project, roles); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project created: %s", project.Name),
		&creator.ID,
		&project.ID,
	)

	ownerRole := users_enums.ProjectRoleOwner
	return s.buildDetails(project, &ownerRole)
}

func (s *ProjectService) GetProject(
	projectID uuid.UUID,
	user *users_models.User,
) (*projects_dto.ProjectDetailsResponseDTO, error) {
	project, err := s.getExistingProject(projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.membershipService.GetUserProjectRole(projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionViewProject, access.Facts{}) {
		return nil, service_errors.Forbidden("insufficient permissions to view project")
	}

	return s.buildDetails(project, role)
}

func (s *ProjectService) GetUserProjects(user *users_models.User) (*projects_dto.ListProjectsResponseDTO, error) {
	projects, err := s.membershipRepository.GetProjectsWithRolesByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user projects: %w", err)
	}

	return &projects_dto.ListProjectsResponseDTO{
		Projects: projects,
	}, nil
}

func (s *ProjectService) UpdateProject(
	projectID uuid.UUID,
	request *projects_dto.UpdateProjectRequestDTO,
	user *users_models.User,
) (*projects_dto.ProjectDetailsResponseDTO, error) {
	project, err := s.getExistingProject(projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.membershipService.GetUserProjectRole(projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionUpdateProject, access.Facts{}) {
		return nil, service_errors.Forbidden("insufficient permissions to update project")
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, service_errors.Validation("project name is required")
	}
	if utf8.RuneCountInString(name) > maxProjectNameLength {
		return nil, service_errors.Validation("project name must be at most %d characters", maxProjectNameLength)
	}

	var roles map[uuid.UUID]users_enums.ProjectRole
	if request.Members != nil {
		roles, err = s.membershipService.ResolveMembershipRoles(project.CreatorID, request.Members)
		if err != nil {
			return nil, err
		}
	}

	previousMemberIDs, err := s.membershipRepository.GetProjectMemberIDs(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}

	project.Name = name
	project.Description = request.Description

	if err := s.projectRepository.UpdateProject(project, roles); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if roles != nil {
		s.membershipService.InvalidateRoles(projectID, previousMemberIDs, roles)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project updated: %s", project.Name),
		&user.ID,
		&projectID,
	)

	updatedRole, err := s.membershipService.GetUserProjectRole(projectID, user.ID)
	if err != nil {
		return nil, err
	}

	return s.buildDetails(project, updatedRole)
}

// DeleteProject removes the project with everything it owns. Allowed to the
// project owner and to global admins.
func (s *ProjectService) DeleteProject(projectID uuid.UUID, user *users_models.User) error {
	project, err := s.getExistingProject(projectID)
	if err != nil {
		return err
	}

	role, err := s.membershipService.GetUserProjectRole(projectID, user.ID)
	if err != nil {
		return err
	}

	facts := access.Facts{IsGlobalAdmin: user.IsGlobalAdmin()}
	if !access.CanPerform(role, access.ActionDeleteProject, facts) {
		return service_errors.Forbidden("only project owner or admin can delete project")
	}

	previousMemberIDs, err := s.membershipRepository.GetProjectMemberIDs(projectID)
	if err != nil {
		return fmt.Errorf("failed to get project members: %w", err)
	}

	for _, listener := range s.projectDeletionListeners {
		if err := listener.OnBeforeProjectDeletion(projectID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
	}

	if err := s.projectRepository.DeleteProject(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.membershipService.InvalidateRoles(projectID, previousMemberIDs, nil)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project deleted: %s", project.Name),
		&user.ID,
		&projectID,
	)

	return nil
}

func (s *ProjectService) GetProjectAuditLogs(
	projectID uuid.UUID,
	user *users_models.User,
	request *audit_logs.GetAuditLogsRequest,
) (*audit_logs.GetAuditLogsResponse, error) {
	if _, err := s.getExistingProject(projectID); err != nil {
		return nil, err
	}

	role, err := s.membershipService.GetUserProjectRole(projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionViewProject, access.Facts{}) {
		return nil, service_errors.Forbidden("insufficient permissions to view project audit logs")
	}

	return s.auditLogService.GetProjectAuditLogs(projectID, request)
}

// GetProjectByID returns nil when the project does not exist.
func (s *ProjectService) GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	return s.projectRepository.GetProjectByID(projectID)
}

func (s *ProjectService) GetUserProjectRole(projectID, userID uuid.UUID) (*users_enums.ProjectRole, error) {
	return s.membershipService.GetUserProjectRole(projectID, userID)
}

func (s *ProjectService) getExistingProject(projectID uuid.UUID) (*projects_models.Project, error) {
	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if project == nil {
		return nil, service_errors.NotFound("project not found")
	}

	return project, nil
}

func (s *ProjectService) buildDetails(
	project *projects_models.Project,
	role *users_enums.ProjectRole,
) (*projects_dto.ProjectDetailsResponseDTO, error) {
	members, err := s.membershipRepository.GetProjectMembers(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}

	return &projects_dto.ProjectDetailsResponseDTO{
		ProjectResponseDTO: projects_dto.ProjectResponseDTO{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
			CreatorID:   project.CreatorID,
			CreatedAt:   project.CreatedAt,
			UserRole:    role,
		},
		Members: members,
	}, nil
}
