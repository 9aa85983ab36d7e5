// Command menu-sim runs the menu conversation in a terminal, one line per
// inbound message, without the WhatsApp transport.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"

	"github.com/wolfman30/whatsapp-menu-bot/cmd/mainconfig"
	appconfig "github.com/wolfman30/whatsapp-menu-bot/internal/config"
	"github.com/wolfman30/whatsapp-menu-bot/internal/conversation"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

func main() {
	userID := flag.String("user", "", "user id for the session (random when empty)")
	flag.Parse()

	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessions, err := mainconfig.BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	flow, err := mainconfig.BuildFlow(cfg)
	if err != nil {
		logger.Error("failed to build menu flow", "error", err)
		os.Exit(1)
	}

	id := *userID
	if id == "" {
		id = "sim-" + uuid.NewString()
	}
	engine := conversation.NewEngine(sessions.Store, flow, logger)
	if err := run(ctx, engine, id, os.Stdin, os.Stdout); err != nil {
		logger.Error("simulator stopped", "error", err)
		os.Exit(1)
	}
}

type responder interface {
	Handle(ctx context.Context, userID, message string) string
}

// run feeds each input line to the responder, normalized the way the
// WhatsApp adapter normalizes text, and prints the reply.
func run(ctx context.Context, r responder, userID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "session %s (Ctrl-D to exit)\n", userID)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		text := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if text == "" {
			continue
		}
		fmt.Fprintf(out, "%s\n\n", r.Handle(ctx, userID, text))
	}
}
