package health

import (
	"context"
	"fmt"
	"time"

	"github.com/devanshgoyal/shopkart/internal/config"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/hellofresh/health-go/v5"
	healthPostgres "github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// NewHealthHandler reports liveness of the configured record backend. The
// memory backend pings trivially; redis and postgres get real checks.
func NewHealthHandler(cfg *config.Config, store kv.Store) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:    "record-store",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				return store.Ping(ctx)
			},
		},
	}

	switch cfg.Storage.Backend {
	case "postgres":
		checks = append(checks, health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: healthPostgres.New(healthPostgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	case "redis":
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "shopkart",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
