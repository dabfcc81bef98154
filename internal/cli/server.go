package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-duel/internal/app"
	"trivia-duel/internal/config"
	"trivia-duel/internal/domain"
	"trivia-duel/internal/infra/gemini"
	"trivia-duel/internal/infra/memory"
	pgbank "trivia-duel/internal/infra/postgres"
	redisseen "trivia-duel/internal/infra/redis"
	transport "trivia-duel/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia duel server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Seen question texts fade after a day by default; long enough to keep
	// back-to-back rematches fresh.
	seenTTL := config.Duration(cfg.Redis.TTL, 24*time.Hour)
	var seen gemini.SeenStore
	if redisClient != nil {
		seen = redisseen.NewSeenStore(redisClient, seenTTL)
	} else {
		seen = memory.NewSeenStore(seenTTL)
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	provider, err := buildProvider(ctx, cfg, pool, seen)
	if err != nil {
		return err
	}

	rounds := cfg.Match.Rounds
	if rounds <= 0 {
		rounds = domain.DefaultRounds
	}

	store := memory.NewGameStore(provider, app.TimerScheduler{}, rounds)
	service := app.NewGameService(store)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia duel server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildProvider picks the question source: Gemini when an API key is
// configured, the Postgres question bank for offline play, and a small
// canned bank as a last resort demo mode.
func buildProvider(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, seen gemini.SeenStore) (app.QuestionProvider, error) {
	apiKey := cfg.Gemini.APIKey
	if env := os.Getenv("GEMINI_API_KEY"); env != "" {
		apiKey = env
	}
	if apiKey != "" {
		timeout := config.Duration(cfg.Gemini.Timeout, 30*time.Second)
		return gemini.New(ctx, apiKey, cfg.Gemini.Model, timeout, seen)
	}
	if pool != nil {
		log.Printf("no Gemini API key configured, serving questions from the Postgres bank")
		return pgbank.NewBankProvider(pool), nil
	}
	log.Printf("no Gemini API key or Postgres bank configured, serving canned demo questions")
	return memory.NewStaticProvider(demoBank()), nil
}

// demoBank covers one default-length match on the general knowledge topic.
func demoBank() map[string][]domain.Question {
	return map[string][]domain.Question{
		"general knowledge": {
			{
				ID:           "demo-1",
				Text:         "What is the largest planet in the Solar System?",
				Options:      []string{"Earth", "Saturn", "Jupiter", "Neptune"},
				CorrectIndex: 2,
				Explanation:  "Jupiter is so large that all the other planets could fit inside it.",
			},
			{
				ID:           "demo-2",
				Text:         "Which element has the chemical symbol O?",
				Options:      []string{"Gold", "Oxygen", "Osmium", "Oganesson"},
				CorrectIndex: 1,
				Explanation:  "Oxygen makes up about 21% of Earth's atmosphere.",
			},
			{
				ID:           "demo-3",
				Text:         "How many continents are there on Earth?",
				Options:      []string{"Five", "Six", "Seven", "Eight"},
				CorrectIndex: 2,
				Explanation:  "The seven-continent model is the most widely taught.",
			},
			{
				ID:           "demo-4",
				Text:         "What is the capital of Australia?",
				Options:      []string{"Sydney", "Melbourne", "Canberra", "Perth"},
				CorrectIndex: 2,
				Explanation:  "Canberra was purpose-built as a compromise between Sydney and Melbourne.",
			},
			{
				ID:           "demo-5",
				Text:         "Which ocean is the deepest?",
				Options:      []string{"Atlantic", "Indian", "Arctic", "Pacific"},
				CorrectIndex: 3,
				Explanation:  "The Mariana Trench in the Pacific reaches nearly 11 kilometres down.",
			},
			{
				ID:           "demo-6",
				Text:         "Who painted the Mona Lisa?",
				Options:      []string{"Michelangelo", "Leonardo da Vinci", "Raphael", "Donatello"},
				CorrectIndex: 1,
				Explanation:  "Leonardo worked on the portrait for over a decade.",
			},
			{
				ID:           "demo-7",
				Text:         "What is the smallest prime number?",
				Options:      []string{"0", "1", "2", "3"},
				CorrectIndex: 2,
				Explanation:  "Two is the only even prime number.",
			},
			{
				ID:           "demo-8",
				Text:         "Which country invented paper?",
				Options:      []string{"Egypt", "Greece", "China", "India"},
				CorrectIndex: 2,
				Explanation:  "Papermaking dates to the Han dynasty, around 105 AD.",
			},
			{
				ID:           "demo-9",
				Text:         "What gas do plants primarily absorb for photosynthesis?",
				Options:      []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
				CorrectIndex: 2,
				Explanation:  "Plants convert carbon dioxide and water into glucose and oxygen.",
			},
			{
				ID:           "demo-10",
				Text:         "How many strings does a standard violin have?",
				Options:      []string{"Three", "Four", "Five", "Six"},
				CorrectIndex: 1,
				Explanation:  "The four strings are tuned G, D, A, and E.",
			},
		},
	}
}
