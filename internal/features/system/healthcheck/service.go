package system_healthcheck

import (
	"fmt"

	"taskflow/internal/storage"
	cache_utils "taskflow/internal/util/cache"
)

type HealthcheckService struct {
	checkDatabase func() error
	checkCache    func() error
}

// IsHealthy fails with the first dependency that does not answer.
func (s *HealthcheckService) IsHealthy() error {
	if err := s.checkDatabase(); err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := s.safeCheck(s.checkCache); err != nil {
		return fmt.Errorf("cache check failed: %w", err)
	}

	return nil
}

func (s *HealthcheckService) safeCheck(check func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()

	return check()
}

func pingDatabase() error {
	return storage.GetDb().Exec("SELECT 1").Error
}

func pingCache() error {
	return cache_utils.TestCacheConnection()
}
