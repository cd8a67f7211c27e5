package chat

import (
	"testing"

	"github.com/flemzord/edgechat/internal/provider"
)

func TestAssembleFirstTurn(t *testing.T) {
	t.Parallel()

	a := NewAssembler(Config{})
	msgs := a.Assemble("", nil, "hello")

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != provider.MessageRoleSystem {
		t.Errorf("first role = %q, want system", msgs[0].Role)
	}
	if msgs[0].Content != defaultSystemPrompt {
		t.Errorf("system content = %q, want bare prompt", msgs[0].Content)
	}
	if msgs[1].Role != provider.MessageRoleUser || msgs[1].Content != "hello" {
		t.Errorf("last message = %+v, want user hello", msgs[1])
	}
}

func TestAssembleAppendsSummaryToSystemTurn(t *testing.T) {
	t.Parallel()

	a := NewAssembler(Config{})
	msgs := a.Assemble("They are planning a trip.", nil, "hi")

	want := defaultSystemPrompt + " Summary: They are planning a trip."
	if msgs[0].Content != want {
		t.Errorf("system content = %q, want %q", msgs[0].Content, want)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
}

func TestAssembleWindowsHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		historyLen  int
		wantHistory int
	}{
		{"empty", 0, 0},
		{"under window", 5, 5},
		{"at window", 8, 8},
		{"over window", 20, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			history := turns(tt.historyLen)
			a := NewAssembler(Config{})
			msgs := a.Assemble("", history, "next")

			if got := len(msgs); got != tt.wantHistory+2 {
				t.Fatalf("got %d messages, want %d", got, tt.wantHistory+2)
			}
			// The window is the tail of history, order preserved.
			for i, m := range msgs[1 : len(msgs)-1] {
				want := history[tt.historyLen-tt.wantHistory+i]
				if m != want {
					t.Errorf("window[%d] = %+v, want %+v", i, m, want)
				}
			}
			if last := msgs[len(msgs)-1]; last.Role != provider.MessageRoleUser || last.Content != "next" {
				t.Errorf("last message = %+v, want the new user turn", last)
			}
		})
	}
}

func TestAssembleDoesNotMutateHistory(t *testing.T) {
	t.Parallel()

	history := turns(10)
	before := append([]provider.LLMMessage(nil), history...)

	a := NewAssembler(Config{})
	a.Assemble("s", history, "u")

	for i := range history {
		if history[i] != before[i] {
			t.Fatalf("history[%d] changed: %+v != %+v", i, history[i], before[i])
		}
	}
}
