package chat

import (
	"github.com/flemzord/edgechat/internal/provider"
)

// Assembler builds the message sequence sent to the provider for reply
// generation. It is a pure function of its inputs; assembly never touches
// the store.
type Assembler struct {
	cfg Config
}

// NewAssembler creates an Assembler with the given config.
func NewAssembler(cfg Config) *Assembler {
	return &Assembler{cfg: cfg.withDefaults()}
}

// Assemble returns the reply-generation context: one system turn carrying
// the fixed instruction (plus the rolling summary when present), the most
// recent ContextRecent history turns in conversational order, and the new
// user message last. The result never exceeds ContextRecent+2 messages.
func (a *Assembler) Assemble(summary string, history []provider.LLMMessage, user string) []provider.LLMMessage {
	recent := history
	if len(recent) > a.cfg.ContextRecent {
		recent = recent[len(recent)-a.cfg.ContextRecent:]
	}

	system := a.cfg.SystemPrompt
	if summary != "" {
		system += " Summary: " + summary
	}

	msgs := make([]provider.LLMMessage, 0, len(recent)+2)
	msgs = append(msgs, provider.LLMMessage{
		Role:    provider.MessageRoleSystem,
		Content: system,
	})
	msgs = append(msgs, recent...)
	msgs = append(msgs, provider.LLMMessage{
		Role:    provider.MessageRoleUser,
		Content: user,
	})
	return msgs
}
