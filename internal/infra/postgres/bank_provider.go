package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-duel/internal/domain"
)

// BankProvider serves questions from curated JSONB banks in Postgres. It is
// the offline question source when no generation backend is configured: each
// match draws a random sample from the topic's bank.
type BankProvider struct {
	pool *pgxpool.Pool

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankProvider(pool *pgxpool.Pool) *BankProvider {
	return &BankProvider{
		pool: pool,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *BankProvider) Generate(ctx context.Context, topic string, count int) ([]domain.Question, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM question_banks WHERE topic=$1`,
		strings.ToLower(strings.TrimSpace(topic)),
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("%w: load bank: %v", domain.ErrGenerationFailed, err)
	}

	var bank []domain.Question
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("%w: unmarshal bank: %v", domain.ErrGenerationFailed, err)
	}
	if len(bank) < count {
		return nil, fmt.Errorf("%w: bank for %q has %d questions, want %d", domain.ErrGenerationFailed, topic, len(bank), count)
	}

	questions := p.sample(bank, count)
	if err := domain.ValidateBatch(questions, count); err != nil {
		return nil, err
	}
	return questions, nil
}

// sample draws count questions without replacement.
func (p *BankProvider) sample(bank []domain.Question, count int) []domain.Question {
	shuffled := make([]domain.Question, len(bank))
	copy(shuffled, bank)

	p.mu.Lock()
	p.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	p.mu.Unlock()

	return shuffled[:count]
}
