package mainconfig

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/whatsapp-menu-bot/internal/config"
	"github.com/wolfman30/whatsapp-menu-bot/internal/conversation"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		SessionStore:  "memory",
		SweepInterval: time.Minute,
		RedisAddr:     "localhost:6379",
		Links: appconfig.Links{
			Website:      "https://example.com",
			AppDemoVideo: "https://example.com/demo",
		},
	}
}

func TestBuildSessionStore_Memory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.SessionIdleTTL = time.Hour
	built, err := BuildSessionStore(ctx, cfg, logging.NewWithWriter("error", io.Discard))
	require.NoError(t, err)
	defer built.Close()

	assert.IsType(t, &conversation.MemoryStore{}, built.Store)
}

func TestBuildSessionStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.SessionStore = "redis"
	cfg.RedisAddr = mr.Addr()

	built, err := BuildSessionStore(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	require.NoError(t, err)
	defer built.Close()

	assert.IsType(t, &conversation.RedisStore{}, built.Store)
	sess, err := built.Store.Get(context.Background(), "5215550001")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateMainMenu, sess.State)
}

func TestBuildSessionStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.SessionStore = "redis"
	cfg.RedisAddr = addr

	_, err := BuildSessionStore(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestBuildSessionStore_Unsupported(t *testing.T) {
	cfg := testConfig()
	cfg.SessionStore = "postgres"

	_, err := BuildSessionStore(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	require.Error(t, err)
}

func TestRedisOptions(t *testing.T) {
	cfg := testConfig()
	cfg.RedisPassword = "secret"
	cfg.RedisDB = 2

	opts := RedisOptions(cfg)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Nil(t, opts.TLSConfig)

	cfg.RedisTLS = true
	assert.NotNil(t, RedisOptions(cfg).TLSConfig)
}

func TestBuildFlow_SubstitutesLinks(t *testing.T) {
	flow, err := BuildFlow(testConfig())
	require.NoError(t, err)

	out, err := flow[conversation.StateMainMenu].Handle(context.Background(), "4")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "https://example.com")

	out, err = flow[conversation.StateAppNavigation].Handle(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out.Reply, "https://example.com/demo"))
}
