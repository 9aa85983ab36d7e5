package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/whatsapp-menu-bot/internal/config"
	"github.com/wolfman30/whatsapp-menu-bot/internal/conversation"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

// SessionStore bundles the configured store with its cleanup hook.
type SessionStore struct {
	Store conversation.SessionStore
	Close func() error
}

// BuildSessionStore centralizes session store wiring so both binaries
// share the same memory/Redis selection. The memory sweeper runs until
// ctx is cancelled.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*SessionStore, error) {
	switch cfg.SessionStore {
	case "", "memory":
		store := conversation.NewMemoryStore(conversation.WithIdleTTL(cfg.SessionIdleTTL))
		if cfg.SessionIdleTTL > 0 && cfg.SweepInterval > 0 {
			go store.RunSweeper(ctx, cfg.SweepInterval, func(removed int) {
				if removed > 0 {
					logger.Debug("expired sessions swept", "removed", removed, "remaining", store.Len())
				}
			})
		}
		return &SessionStore{Store: store, Close: func() error { return nil }}, nil
	case "redis":
		client := redis.NewClient(RedisOptions(cfg))
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("mainconfig: redis ping %s: %w", cfg.RedisAddr, err)
		}
		return &SessionStore{
			Store: conversation.NewRedisStore(client, cfg.SessionIdleTTL),
			Close: client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("mainconfig: unsupported session store %q", cfg.SessionStore)
	}
}

// RedisOptions maps configuration onto go-redis client options.
func RedisOptions(cfg *appconfig.Config) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// Links converts configured link settings into reply template links.
func Links(cfg *appconfig.Config) conversation.Links {
	l := cfg.Links
	return conversation.Links{
		Website:               l.Website,
		ContactPage:           l.ContactPage,
		HelpCenter:            l.HelpCenter,
		OnDemandBrochure:      l.OnDemandBrochure,
		WeightProgramBrochure: l.WeightProgramBrochure,
		PaymentTutorial:       l.PaymentTutorial,
		DevicesHelp:           l.DevicesHelp,
		MyFitnessPalSync:      l.MyFitnessPalSync,
		AppDemoVideo:          l.AppDemoVideo,
		ReportIssue:           l.ReportIssue,
	}
}

// BuildFlow returns the validated menu flow for the configured links.
func BuildFlow(cfg *appconfig.Config) (conversation.Flow, error) {
	flow := conversation.DefaultFlow(Links(cfg))
	if err := flow.Validate(); err != nil {
		return nil, fmt.Errorf("mainconfig: invalid menu flow: %w", err)
	}
	return flow, nil
}
