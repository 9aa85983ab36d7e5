package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/whatsapp-menu-bot/internal/conversation"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

type recordingResponder struct {
	inputs []string
}

func (r *recordingResponder) Handle(_ context.Context, _ string, message string) string {
	r.inputs = append(r.inputs, message)
	return "reply:" + message
}

func TestRunNormalizesAndSkipsBlankLines(t *testing.T) {
	rec := &recordingResponder{}
	var out bytes.Buffer

	err := run(context.Background(), rec, "u1", strings.NewReader("  Hola \n\n 3\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"hola", "3"}, rec.inputs)
	assert.Contains(t, out.String(), "session u1")
	assert.Contains(t, out.String(), "reply:hola")
	assert.Contains(t, out.String(), "reply:3")
}

func TestRunDrivesEngine(t *testing.T) {
	links := conversation.Links{AppDemoVideo: "https://example.com/demo"}
	store := conversation.NewMemoryStore()
	engine := conversation.NewEngine(store, conversation.DefaultFlow(links), logging.NewWithWriter("error", io.Discard))
	var out bytes.Buffer

	err := run(context.Background(), engine, "u1", strings.NewReader("hola\n3\n3\n1\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "https://example.com/demo")
	sess, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateMainMenu, sess.State)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	rec := &recordingResponder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, rec, "u1", strings.NewReader("1\n2\n"), io.Discard)
	require.NoError(t, err)
	assert.Empty(t, rec.inputs)
}
