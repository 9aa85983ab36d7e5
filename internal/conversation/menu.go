package conversation

import (
	"context"
	"fmt"
)

// StateHandler answers one message for a single state.
type StateHandler interface {
	Handle(ctx context.Context, input string) (Outcome, error)
}

// Outcome is the reply for a message and the state the session moves to.
type Outcome struct {
	Reply   string
	Next    State
	Matched bool
}

// Option is one numbered menu choice.
type Option struct {
	Code  string
	Reply string
	Next  State
}

// Menu is the table-driven StateHandler: exact code match or reprompt.
type Menu struct {
	State    State
	Options  []Option
	Reprompt string
}

func (m *Menu) Handle(_ context.Context, input string) (Outcome, error) {
	for _, opt := range m.Options {
		if opt.Code == input {
			return Outcome{Reply: opt.Reply, Next: opt.Next, Matched: true}, nil
		}
	}
	return Outcome{Reply: m.Reprompt, Next: m.State}, nil
}

// Codes returns the option codes in menu order.
func (m *Menu) Codes() []string {
	codes := make([]string, 0, len(m.Options))
	for _, opt := range m.Options {
		codes = append(codes, opt.Code)
	}
	return codes
}

// Flow maps every state to its handler.
type Flow map[State]StateHandler

// Validate checks that every state has a handler and that table menus only
// produce non-empty replies and valid targets.
func (f Flow) Validate() error {
	for _, st := range States() {
		h, ok := f[st]
		if !ok || h == nil {
			return fmt.Errorf("conversation: no handler for state %s", st)
		}
		menu, ok := h.(*Menu)
		if !ok {
			continue
		}
		if menu.State != st {
			return fmt.Errorf("conversation: menu for %s declares state %s", st, menu.State)
		}
		if menu.Reprompt == "" {
			return fmt.Errorf("conversation: empty reprompt for %s", st)
		}
		seen := make(map[string]bool, len(menu.Options))
		for _, opt := range menu.Options {
			if seen[opt.Code] {
				return fmt.Errorf("conversation: duplicate option %q in %s", opt.Code, st)
			}
			seen[opt.Code] = true
			if opt.Reply == "" {
				return fmt.Errorf("conversation: empty reply for %s option %s", st, opt.Code)
			}
			if !opt.Next.Valid() {
				return fmt.Errorf("conversation: %s option %s targets %w %q", st, opt.Code, ErrUnknownState, opt.Next)
			}
		}
	}
	return nil
}
