package insight

import (
	"strings"
)

// VoiceCommand describes a phrase pattern bound to an intent.
// Pattern tokens wrapped in braces are wildcard slots that capture the
// remaining words at that position, e.g. "create task {title}".
type VoiceCommand struct {
	Intent  string
	Pattern string
}

// VoiceMatch is the result of matching an input phrase
type VoiceMatch struct {
	Intent string
	Slots  map[string]string
}

// DefaultVoiceCommands is the static phrase list the matcher understands
var DefaultVoiceCommands = []VoiceCommand{
	{Intent: "show_pipeline", Pattern: "show pipeline"},
	{Intent: "show_pipeline", Pattern: "show me the pipeline"},
	{Intent: "create_task", Pattern: "create task {title}"},
	{Intent: "create_task", Pattern: "add task {title}"},
	{Intent: "assign_task", Pattern: "assign task {code} to {assignee}"},
	{Intent: "show_invoices", Pattern: "show {status} invoices"},
	{Intent: "show_invoices", Pattern: "show invoices"},
	{Intent: "show_dashboard", Pattern: "show dashboard"},
	{Intent: "approve_leave", Pattern: "approve leave for {employee}"},
	{Intent: "show_alerts", Pattern: "show open alerts"},
}

// VoiceMatcher matches input text against a fixed command list
type VoiceMatcher struct {
	commands []VoiceCommand
}

// NewVoiceMatcher creates a matcher over the given commands.
// Passing nil uses the default command list.
func NewVoiceMatcher(commands []VoiceCommand) *VoiceMatcher {
	if commands == nil {
		commands = DefaultVoiceCommands
	}
	return &VoiceMatcher{commands: commands}
}

// Match resolves the input phrase to an intent with captured slots.
// Matching is case-insensitive; the first matching pattern wins.
// Returns nil when nothing matches.
func (m *VoiceMatcher) Match(input string) *VoiceMatch {
	words := tokenize(input)
	if len(words) == 0 {
		return nil
	}

	for _, cmd := range m.commands {
		if slots, ok := matchPattern(tokenize(cmd.Pattern), words); ok {
			return &VoiceMatch{Intent: cmd.Intent, Slots: slots}
		}
	}
	return nil
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(s)))
}

// matchPattern matches input words against pattern tokens.
// A slot token consumes one or more words; a trailing slot consumes
// everything remaining, an inner slot consumes words until the next
// literal token matches.
func matchPattern(pattern, words []string) (map[string]string, bool) {
	slots := make(map[string]string)
	wi := 0

	for pi := 0; pi < len(pattern); pi++ {
		token := pattern[pi]

		if isSlot(token) {
			name := token[1 : len(token)-1]

			// Trailing slot captures the rest of the input
			if pi == len(pattern)-1 {
				if wi >= len(words) {
					return nil, false
				}
				slots[name] = strings.Join(words[wi:], " ")
				return slots, true
			}

			// Inner slot: capture until the next literal token
			next := pattern[pi+1]
			start := wi
			for wi < len(words) && words[wi] != next {
				wi++
			}
			if wi == start || wi >= len(words) {
				return nil, false
			}
			slots[name] = strings.Join(words[start:wi], " ")
			continue
		}

		if wi >= len(words) || words[wi] != token {
			return nil, false
		}
		wi++
	}

	if wi != len(words) {
		return nil, false
	}
	return slots, true
}

func isSlot(token string) bool {
	return len(token) > 2 && strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}")
}
