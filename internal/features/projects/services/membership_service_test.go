package projects_services

import (
	"sync"
	"testing"

	projects_models "taskflow/internal/features/projects/models"
	users_enums "taskflow/internal/features/users/enums"
	test_utils "taskflow/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryRoleCache struct {
	mu    sync.Mutex
	items map[string]cachedProjectRole
}

func newMemoryRoleCache() *memoryRoleCache {
	return &memoryRoleCache{items: map[string]cachedProjectRole{}}
}

func (c *memoryRoleCache) Get(key string) *cachedProjectRole {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil
	}

	return &item
}

func (c *memoryRoleCache) Set(key string, item *cachedProjectRole) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = *item
}

func (c *memoryRoleCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func setupMembershipService(t *testing.T) (*MembershipService, *memoryRoleCache, *gorm.DB) {
	db := test_utils.SetupTestDatabase(t, &projects_models.ProjectMembership{})

	roleCache := newMemoryRoleCache()
	service := &MembershipService{
		membershipRepository: membershipRepository,
		projectRepository:    projectRepository,
		roleCacheUtil:        roleCache,
	}

	return service, roleCache, db
}

func createMembership(t *testing.T, db *gorm.DB, projectID, userID uuid.UUID, role users_enums.ProjectRole) {
	require.NoError(t, db.Create(&projects_models.ProjectMembership{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}).Error)
}

func Test_GetUserProjectRole_AfterRead_RoleCached(t *testing.T) {
	service, roleCache, db := setupMembershipService(t)
	projectID, userID := uuid.New(), uuid.New()
	createMembership(t, db, projectID, userID, users_enums.ProjectRoleMember)

	role, err := service.GetUserProjectRole(projectID, userID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, users_enums.ProjectRoleMember, *role)

	cached := roleCache.Get(roleCacheKey(projectID, userID))
	require.NotNil(t, cached)
	require.NotNil(t, cached.Role)
	assert.Equal(t, users_enums.ProjectRoleMember, *cached.Role)
}

func Test_GetUserProjectRole_WhenInvalidatedDuringRead_StaleRoleNotCached(t *testing.T) {
	service, roleCache, db := setupMembershipService(t)
	projectID, userID := uuid.New(), uuid.New()
	createMembership(t, db, projectID, userID, users_enums.ProjectRoleMember)

	// the role changes after the first lookup has read its row but before
	// that lookup stores it
	changed := false
	err := db.Callback().Query().After("gorm:query").Register("change_role_mid_read", func(tx *gorm.DB) {
		if changed || tx.Statement.Table != "project_memberships" {
			return
		}
		changed = true

		require.NoError(t, db.Model(&projects_models.ProjectMembership{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Update("role", users_enums.ProjectRoleManager).Error)
		service.InvalidateRoles(projectID, []uuid.UUID{userID}, nil)
	})
	require.NoError(t, err)

	staleRole, err := service.GetUserProjectRole(projectID, userID)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotNil(t, staleRole)
	assert.Equal(t, users_enums.ProjectRoleMember, *staleRole)

	assert.Nil(t, roleCache.Get(roleCacheKey(projectID, userID)))

	role, err := service.GetUserProjectRole(projectID, userID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, users_enums.ProjectRoleManager, *role)

	cached := roleCache.Get(roleCacheKey(projectID, userID))
	require.NotNil(t, cached)
	require.NotNil(t, cached.Role)
	assert.Equal(t, users_enums.ProjectRoleManager, *cached.Role)
}

func Test_InvalidateRoles_ForPreviousAndCurrentMembers_CachedRolesDropped(t *testing.T) {
	service, roleCache, db := setupMembershipService(t)
	projectID, removed, added := uuid.New(), uuid.New(), uuid.New()
	createMembership(t, db, projectID, removed, users_enums.ProjectRoleMember)

	_, err := service.GetUserProjectRole(projectID, removed)
	require.NoError(t, err)
	_, err = service.GetUserProjectRole(projectID, added)
	require.NoError(t, err)
	require.NotNil(t, roleCache.Get(roleCacheKey(projectID, removed)))
	require.NotNil(t, roleCache.Get(roleCacheKey(projectID, added)))

	service.InvalidateRoles(projectID, []uuid.UUID{removed}, map[uuid.UUID]users_enums.ProjectRole{
		added: users_enums.ProjectRoleMember,
	})

	assert.Nil(t, roleCache.Get(roleCacheKey(projectID, removed)))
	assert.Nil(t, roleCache.Get(roleCacheKey(projectID, added)))
}
