package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator censors configured words in chat message bodies before they
// are persisted. Matching is case-insensitive; the original length and
// spacing are preserved by replacing matched runes one for one.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton over the lowercased word
// list. An empty list yields a disabled moderator that passes text through.
func NewModerator(censoredWords []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	if len(censoredWords) == 0 {
		return &Moderator{replacement: replacement, log: log}, nil
	}

	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i] = lowerRunes([]rune(word))
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, replacement: replacement, log: log}, nil
}

// Censor replaces every occurrence of a censored word with the
// replacement rune. Returns the input untouched when moderation is
// disabled or nothing matches.
func (m *Moderator) Censor(original string) string {
	if m.matcher == nil || original == "" {
		return original
	}

	runes := []rune(original)
	spans := m.matcher.MultiPatternSearch(lowerRunes(runes), false)
	if len(spans) == 0 {
		return original
	}

	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(runes) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			runes[i] = m.replacement
		}
	}

	m.log.Debug("Censored message content", "matches", len(spans))
	return string(runes)
}

func lowerRunes(input []rune) []rune {
	out := make([]rune, len(input))
	for i, r := range input {
		out[i] = unicode.ToLower(r)
	}
	return out
}
