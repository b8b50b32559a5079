package projects_services

import (
	"taskflow/internal/cache"
	"taskflow/internal/features/audit_logs"
	projects_interfaces "taskflow/internal/features/projects/interfaces"
	projects_repositories "taskflow/internal/features/projects/repositories"
	users_services "taskflow/internal/features/users/services"
	cache_utils "taskflow/internal/util/cache"
)

var projectRepository = &projects_repositories.ProjectRepository{}
var membershipRepository = &projects_repositories.MembershipRepository{}

var membershipService = &MembershipService{
	membershipRepository: membershipRepository,
	projectRepository:    projectRepository,
	userService:          users_services.GetUserService(),
	auditLogService:      audit_logs.GetAuditLogService(),
	roleCacheUtil:        cache_utils.NewCacheUtil[cachedProjectRole](cache.GetCache, "tf_project_role:"),
}

var projectService = &ProjectService{
	projectRepository:        projectRepository,
	membershipRepository:     membershipRepository,
	membershipService:        membershipService,
	auditLogService:          audit_logs.GetAuditLogService(),
	projectDeletionListeners: []projects_interfaces.ProjectDeletionListener{},
}

func GetProjectService() *ProjectService {
	return projectService
}

func GetMembershipService() *MembershipService {
	return membershipService
}
