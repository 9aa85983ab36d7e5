package conversation

import (
	"context"
	"errors"
	"testing"
)

func TestMenuHandleExactMatch(t *testing.T) {
	menu := &Menu{
		State: StatePlansInfo,
		Options: []Option{
			{Code: "1", Reply: "one", Next: StateMainMenu},
			{Code: "2", Reply: "two", Next: StateMainMenu},
		},
		Reprompt: "1 or 2",
	}

	tests := []struct {
		input   string
		reply   string
		next    State
		matched bool
	}{
		{"1", "one", StateMainMenu, true},
		{"2", "two", StateMainMenu, true},
		{"12", "1 or 2", StatePlansInfo, false},
		{"01", "1 or 2", StatePlansInfo, false},
		{" 1", "1 or 2", StatePlansInfo, false},
	}
	for _, tt := range tests {
		out, err := menu.Handle(context.Background(), tt.input)
		if err != nil {
			t.Fatalf("Handle(%q): %v", tt.input, err)
		}
		if out.Reply != tt.reply || out.Next != tt.next || out.Matched != tt.matched {
			t.Errorf("Handle(%q) = %+v, want reply=%q next=%s matched=%v", tt.input, out, tt.reply, tt.next, tt.matched)
		}
	}
	if got := menu.Codes(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("Codes() = %v", got)
	}
}

func TestFlowValidate(t *testing.T) {
	valid := func() Flow { return DefaultFlow(Links{}) }

	t.Run("default flow", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing state", func(t *testing.T) {
		f := valid()
		delete(f, StateTechSupport)
		if err := f.Validate(); err == nil {
			t.Fatal("expected error for missing state")
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		f := valid()
		f[StatePlansInfo] = &Menu{
			State:    StatePlansInfo,
			Options:  []Option{{Code: "1", Reply: "x", Next: State("nowhere")}},
			Reprompt: "r",
		}
		err := f.Validate()
		if !errors.Is(err, ErrUnknownState) {
			t.Fatalf("expected ErrUnknownState, got %v", err)
		}
	})

	t.Run("duplicate code", func(t *testing.T) {
		f := valid()
		f[StatePlansInfo] = &Menu{
			State: StatePlansInfo,
			Options: []Option{
				{Code: "1", Reply: "x", Next: StateMainMenu},
				{Code: "1", Reply: "y", Next: StateMainMenu},
			},
			Reprompt: "r",
		}
		if err := f.Validate(); err == nil {
			t.Fatal("expected duplicate code error")
		}
	})

	t.Run("empty reprompt", func(t *testing.T) {
		f := valid()
		f[StateAppNavigation].(*Menu).Reprompt = ""
		if err := f.Validate(); err == nil {
			t.Fatal("expected empty reprompt error")
		}
	})

	t.Run("custom handler skips table checks", func(t *testing.T) {
		f := valid()
		f[StatePaymentHelp] = handlerFunc(func(context.Context, string) (Outcome, error) {
			return Outcome{Reply: "ok", Next: StateMainMenu}, nil
		})
		if err := f.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestStateValid(t *testing.T) {
	for _, s := range States() {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if State("").Valid() || State("MAIN_MENU").Valid() {
		t.Error("unexpected valid state")
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	if k.size() != 2 {
		t.Fatalf("size = %d, want 2", k.size())
	}
	unlockA()
	unlockB()
	if k.size() != 0 {
		t.Fatalf("size = %d, want 0", k.size())
	}
}
