package users_repositories

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/storage"

	"gorm.io/gorm"
)

// SecretKeyRepository keeps the JWT signing secret in the database so every
// instance signs with the same key. The first read generates it.
type SecretKeyRepository struct {
	mu     sync.Mutex
	cached string
}

func (r *SecretKeyRepository) GetSecretKey() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}

	var secretKey users_models.SecretKey

	err := storage.GetDb().First(&secretKey).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		secret, genErr := generateSecret()
		if genErr != nil {
			return "", genErr
		}

		secretKey = users_models.SecretKey{Secret: secret}
		if err := storage.GetDb().Create(&secretKey).Error; err != nil {
			return "", fmt.Errorf("failed to store secret key: %w", err)
		}
	}

	r.cached = secretKey.Secret

	return r.cached, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
