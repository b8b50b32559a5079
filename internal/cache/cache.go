package cache

import (
	"crypto/tls"
	"sync"

	"taskflow/internal/config"
	"taskflow/internal/util/logger"

	"github.com/valkey-io/valkey-go"
)

var (
	once         sync.Once
	valkeyClient valkey.Client
)

// GetCache returns the shared Valkey client, or nil when Valkey could not be
// reached at first use. Callers treat nil as a permanent cache miss.
func GetCache() valkey.Client {
	once.Do(func() {
		env := config.GetEnv()

		options := valkey.ClientOption{
			InitAddress: []string{env.ValkeyHost + ":" + env.ValkeyPort},
			Password:    env.ValkeyPassword,
			Username:    env.ValkeyUsername,
		}

		if env.ValkeyIsSsl {
			options.TLSConfig = &tls.Config{
				ServerName: env.ValkeyHost,
			}
		}

		client, err := valkey.NewClient(options)
		if err != nil {
			logger.GetLogger().Error("failed to connect to valkey, running without cache",
				"address", options.InitAddress[0],
				"error", err)
			return
		}

		valkeyClient = client
	})

	return valkeyClient
}
