// Package chat implements the per-session conversation engine: context
// assembly, turn orchestration, and history compaction with a rolling
// summary.
package chat

// Default window sizes and prompts. The two windows are independent
// tuning knobs; nothing assumes a relationship between them.
const (
	// defaultContextRecent is how many stored turns are replayed to the
	// model when generating a reply.
	defaultContextRecent = 8

	// defaultRetainRecent is how many turns survive in the store after a
	// turn completes. Older turns only live on inside the summary.
	defaultRetainRecent = 12

	// defaultSystemPrompt is the fixed instruction prepended to every
	// reply request.
	defaultSystemPrompt = "You are a concise, helpful assistant. " +
		"If unsure, ask one brief clarifying question. " +
		"Use short, clear answers."

	// defaultSummaryPrompt is the instruction for the re-summarization call.
	defaultSummaryPrompt = "Summarize the conversation so far in <= 2 sentences for memory."

	// placeholderReply substitutes for an empty model response so the
	// caller always receives text.
	placeholderReply = "(no response)"
)

// Config holds the tuning knobs for the conversation engine.
type Config struct {
	// ContextRecent is the number of most-recent history turns included
	// in a reply request.
	ContextRecent int `yaml:"context_recent"`

	// RetainRecent is the number of turns kept in the store after each
	// completed turn.
	RetainRecent int `yaml:"retain_recent"`

	// SystemPrompt is the fixed instruction for reply generation.
	SystemPrompt string `yaml:"system_prompt"`

	// SummaryPrompt is the instruction for the compaction call.
	SummaryPrompt string `yaml:"summary_prompt"`
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// the defaults above.
func (cfg Config) withDefaults() Config {
	if cfg.ContextRecent == 0 {
		cfg.ContextRecent = defaultContextRecent
	}
	if cfg.RetainRecent == 0 {
		cfg.RetainRecent = defaultRetainRecent
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.SummaryPrompt == "" {
		cfg.SummaryPrompt = defaultSummaryPrompt
	}
	return cfg
}
