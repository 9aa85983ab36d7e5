package conversation

import (
	"errors"
	"time"
)

// State is a node of the conversation menu tree.
type State string

const (
	StateMainMenu      State = "main_menu"
	StatePlansInfo     State = "plans_info"
	StatePaymentHelp   State = "payment_help"
	StateTechSupport   State = "tech_support"
	StateAppNavigation State = "app_navigation"
)

// ErrUnknownState marks a session whose state is outside the enumeration.
var ErrUnknownState = errors.New("conversation: unknown state")

// States lists every state in menu order.
func States() []State {
	return []State{StateMainMenu, StatePlansInfo, StatePaymentHelp, StateTechSupport, StateAppNavigation}
}

// Valid reports whether s belongs to the enumeration.
func (s State) Valid() bool {
	switch s {
	case StateMainMenu, StatePlansInfo, StatePaymentHelp, StateTechSupport, StateAppNavigation:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }

// Session is the per-user conversation record.
type Session struct {
	UserID    string    `json:"user_id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a session positioned at the main menu.
func NewSession(userID string) *Session {
	return &Session{
		UserID:    userID,
		State:     StateMainMenu,
		UpdatedAt: time.Now().UTC(),
	}
}
