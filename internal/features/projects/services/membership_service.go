package projects_services

import (
	"fmt"
	"sync"

	"taskflow/internal/features/access"
	audit_logs "taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_repositories "taskflow/internal/features/projects/repositories"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	users_services "taskflow/internal/features/users/services"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// cachedProjectRole is what the role cache stores. A nil Role is a cached
// "not a member" answer.
type cachedProjectRole struct {
	Role *users_enums.ProjectRole `json:"role"`
}

type projectRoleCache interface {
	Get(key string) *cachedProjectRole
	Set(key string, item *cachedProjectRole)
	Invalidate(key string)
}

type MembershipService struct {
	membershipRepository *projects_repositories.MembershipRepository
	projectRepository    *projects_repositories.ProjectRepository
	userService          *users_services.UserService
	auditLogService      *audit_logs.AuditLogService

	roleCacheUtil projectRoleCache
	singleflight  singleflight.Group // Prevents thundering herd on DB calls

	// roleEpoch moves on every invalidation. A read that started in an older
	// epoch returns its result but does not cache it.
	roleEpochMutex sync.RWMutex
	roleEpoch      uint64
}

// GetUserProjectRole returns the user's role in the project, or nil when the
// user is not a member.
func (s *MembershipService) GetUserProjectRole(projectID, userID uuid.UUID) (*users_enums.ProjectRole, error) {
	key := roleCacheKey(projectID, userID)

	if cached := s.roleCacheUtil.Get(key); cached != nil {
		return cached.Role, nil
	}

	result, err, _ := s.singleflight.Do(key, func() (any, error) {
		epoch := s.currentRoleEpoch()

		role, err := s.membershipRepository.GetUserProjectRole(projectID, userID)
		if err != nil {
			return nil, err
		}

		s.cacheRoleIfCurrent(key, epoch, role)

		return role, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user project role: %w", err)
	}

	role, ok := result.(*users_enums.ProjectRole)
	if !ok {
		return nil, fmt.Errorf("failed to cast result to ProjectRole")
	}

	return role, nil
}

// ResolveMembershipRoles validates a requested member map and returns the
// complete role map to store.
func (s *MembershipService) ResolveMembershipRoles(
	creatorID uuid.UUID,
	input projects_dto.MembersInput,
) (map[uuid.UUID]users_enums.ProjectRole, error) {
	roles, err := BuildMembershipRoles(creatorID, input)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(roles))
	for userID := range roles {
		userIDs = append(userIDs, userID)
	}

	users, err := s.userService.GetUsersByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get member users: %w", err)
	}

	if len(users) != len(userIDs) {
		found := make(map[uuid.UUID]struct{}, len(users))
		for _, user := range users {
			found[user.ID] = struct{}{}
		}

		for _, userID := range userIDs {
			if _, ok := found[userID]; !ok {
				return nil, service_errors.Validation("user %s does not exist", userID)
			}
		}
	}

	return roles, nil
}

// SyncMembers replaces the project's membership with input. The creator keeps
// the owner role whatever input says.
func (s *MembershipService) SyncMembers(
	projectID uuid.UUID,
	input projects_dto.MembersInput,
	actor *users_models.User,
) (*projects_dto.GetMembersResponseDTO, error) {
	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, service_errors.NotFound("project not found")
	}

	role, err := s.GetUserProjectRole(projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionUpdateProject, access.Facts{}) {
		return nil, service_errors.Forbidden("insufficient permissions to manage members")
	}

	roles, err := s.ResolveMembershipRoles(project.CreatorID, input)
	if err != nil {
		return nil, err
	}

	previousMemberIDs, err := s.membershipRepository.GetProjectMemberIDs(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}

	if err := s.membershipRepository.SyncMembers(projectID, roles); err != nil {
		return nil, fmt.Errorf("failed to sync project members: %w", err)
	}

	s.InvalidateRoles(projectID, previousMemberIDs, roles)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project members updated: %s (%d members)", project.Name, len(roles)),
		&actor.ID,
		&projectID,
	)

	members, err := s.membershipRepository.GetProjectMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}

	return &projects_dto.GetMembersResponseDTO{Members: members}, nil
}

func (s *MembershipService) GetMembers(
	projectID uuid.UUID,
	actor *users_models.User,
) (*projects_dto.GetMembersResponseDTO, error) {
	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, service_errors.NotFound("project not found")
	}

	role, err := s.GetUserProjectRole(projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionViewProject, access.Facts{}) {
		return nil, service_errors.Forbidden("insufficient permissions to view project members")
	}

	members, err := s.membershipRepository.GetProjectMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}

	return &projects_dto.GetMembersResponseDTO{Members: members}, nil
}

// InvalidateRoles drops cached roles for everyone who was or now is a member.
func (s *MembershipService) InvalidateRoles(
	projectID uuid.UUID,
	previousMemberIDs []uuid.UUID,
	roles map[uuid.UUID]users_enums.ProjectRole,
) {
	s.roleEpochMutex.Lock()
	defer s.roleEpochMutex.Unlock()

	s.roleEpoch++

	for _, userID := range previousMemberIDs {
		s.invalidateRole(roleCacheKey(projectID, userID))
	}

	for userID := range roles {
		s.invalidateRole(roleCacheKey(projectID, userID))
	}
}

// invalidateRole also detaches any read in flight for key, so later callers
// start a fresh one instead of sharing its result.
func (s *MembershipService) invalidateRole(key string) {
	s.singleflight.Forget(key)
	s.roleCacheUtil.Invalidate(key)
}

func (s *MembershipService) currentRoleEpoch() uint64 {
	s.roleEpochMutex.RLock()
	defer s.roleEpochMutex.RUnlock()

	return s.roleEpoch
}

func (s *MembershipService) cacheRoleIfCurrent(key string, epoch uint64, role *users_enums.ProjectRole) {
	s.roleEpochMutex.RLock()
	defer s.roleEpochMutex.RUnlock()

	if s.roleEpoch != epoch {
		return
	}

	s.roleCacheUtil.Set(key, &cachedProjectRole{Role: role})
}

func roleCacheKey(projectID, userID uuid.UUID) string {
	return projectID.String() + ":" + userID.String()
}
