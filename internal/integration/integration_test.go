package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-duel/internal/app"
	"trivia-duel/internal/domain"
	"trivia-duel/internal/infra/memory"
	pgbank "trivia-duel/internal/infra/postgres"
	pgmigrations "trivia-duel/internal/infra/postgres/migrations"
)

func TestBankProviderEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	seedBank(t, ctx, pgURL, "history", sampleBank(12))

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	provider := pgbank.NewBankProvider(pool)

	questions, err := provider.Generate(ctx, "History", 10)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(questions))
	}
	seen := map[string]bool{}
	for _, q := range questions {
		if seen[q.ID] {
			t.Fatalf("duplicate question %q drawn from the bank", q.ID)
		}
		seen[q.ID] = true
	}

	// A full match against the bank-backed provider.
	store := memory.NewGameStore(provider, app.TimerScheduler{}, 1)
	service := app.NewGameService(store)
	service.Join(ctx, "g1")
	if err := service.StartMatch(ctx, "g1", "Alice", "Bob", "History"); err != nil {
		t.Fatalf("start match: %v", err)
	}
	game, ok := store.Get("g1")
	if !ok {
		t.Fatalf("expected game session")
	}
	if game.Snapshot().Status != domain.StatusPlaying {
		t.Fatalf("expected PLAYING, got %s", game.Snapshot().Status)
	}

	if _, err := provider.Generate(ctx, "unknown-topic", 2); err == nil {
		t.Fatalf("expected failure for a topic with no bank")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, dsn, topic string, bank []domain.Question) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(bank)
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_banks (topic, data) VALUES (?, ?::jsonb) ON CONFLICT (topic) DO UPDATE SET data=EXCLUDED.data`, topic, string(data)); err != nil {
		t.Fatalf("insert bank: %v", err)
	}
}

func sampleBank(count int) []domain.Question {
	bank := make([]domain.Question, count)
	for i := range bank {
		bank[i] = domain.Question{
			ID:           fmt.Sprintf("bank-q%d", i),
			Text:         fmt.Sprintf("Bank question %d?", i),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % 4,
			Explanation:  "From the curated bank.",
		}
	}
	return bank
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
