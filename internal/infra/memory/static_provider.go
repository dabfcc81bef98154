package memory

import (
	"context"
	"fmt"
	"strings"

	"trivia-duel/internal/domain"
)

// StaticProvider serves canned question banks keyed by topic (useful for
// tests and demos when no generation backend is configured). Banks longer
// than the requested count are truncated; shorter banks fail the contract.
type StaticProvider struct {
	banks map[string][]domain.Question
}

func NewStaticProvider(banks map[string][]domain.Question) *StaticProvider {
	normalized := make(map[string][]domain.Question, len(banks))
	for topic, bank := range banks {
		normalized[normalizeTopic(topic)] = bank
	}
	return &StaticProvider{banks: normalized}
}

func (p *StaticProvider) Generate(_ context.Context, topic string, count int) ([]domain.Question, error) {
	bank, ok := p.banks[normalizeTopic(topic)]
	if !ok {
		return nil, fmt.Errorf("%w: no canned questions for topic %q", domain.ErrGenerationFailed, topic)
	}
	if len(bank) < count {
		return nil, fmt.Errorf("%w: bank for %q has %d questions, want %d", domain.ErrGenerationFailed, topic, len(bank), count)
	}
	questions := make([]domain.Question, count)
	copy(questions, bank[:count])
	if err := domain.ValidateBatch(questions, count); err != nil {
		return nil, err
	}
	return questions, nil
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
