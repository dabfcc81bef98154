package domain

import (
	"fmt"
	"strings"
)

// ValidateBatch checks a provider result against the question contract:
// exactly count questions, each with text, exactly four options, an in-range
// correct index, and an explanation. Any violation collapses into
// ErrGenerationFailed so callers see a single failure taxonomy.
func ValidateBatch(questions []Question, count int) error {
	if len(questions) != count {
		return fmt.Errorf("%w: got %d questions, want %d", ErrGenerationFailed, len(questions), count)
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrGenerationFailed, i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrGenerationFailed, q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrGenerationFailed, i)
		}
		if len(q.Options) != OptionsPerQuestion {
			return fmt.Errorf("%w: question %d has %d options, want %d", ErrGenerationFailed, i, len(q.Options), OptionsPerQuestion)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct index %d out of range", ErrGenerationFailed, i, q.CorrectIndex)
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return fmt.Errorf("%w: question %d has no explanation", ErrGenerationFailed, i)
		}
	}
	return nil
}
