package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dev-millionaire-service/internal/app"
	"dev-millionaire-service/internal/config"
	"dev-millionaire-service/internal/domain"
	fsbank "dev-millionaire-service/internal/infra/fs"
	"dev-millionaire-service/internal/infra/memory"
	pgbank "dev-millionaire-service/internal/infra/postgres"
	redisinfra "dev-millionaire-service/internal/infra/redis"
	transport "dev-millionaire-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks())
	switch {
	case cfg.Banks.Dir != "":
		loader = fsbank.NewBankLoader(cfg.Banks.Dir)
	case pool != nil:
		loader = pgbank.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Banks.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	// Session snapshots outlive a page reload but not a long absence.
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 30*time.Minute)
	var store app.SnapshotStore
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewGameService(banks, store)
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
		log.Printf("starting millionaire service on :%s", finalPort)
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

// sampleBanks is a tiny built-in bank so the server runs with zero config;
// it meets each tier quota exactly. Real deployments point banks.dir or
// postgres.url at actual content.
func sampleBanks() map[string][]domain.Question {
	bank := make([]domain.Question, 0, domain.RosterSize)
	for difficulty := 1; difficulty <= domain.TierCount; difficulty++ {
		for _, q := range demoQuestions[difficulty] {
			bank = append(bank, domain.Question{
				Text:       q.text,
				Options:    q.options,
				Answer:     q.answer,
				Difficulty: difficulty,
			})
		}
	}
	return map[string][]domain.Question{"demo": bank}
}

type demoQuestion struct {
	text    string
	options []string
	answer  int
}

var demoQuestions = map[int][]demoQuestion{
	1: {
		{"Which HTTP status code means Not Found?", []string{"200", "301", "404", "500"}, 2},
		{"What does CSS stand for?", []string{"Cascading Style Sheets", "Computer Style System", "Creative Style Syntax", "Coded Style Sheets"}, 0},
		{"Which symbol starts a comment line in Python?", []string{"//", "#", "--", ";"}, 1},
		{"What does RAM stand for?", []string{"Rapid Access Module", "Random Access Memory", "Read And Modify", "Runtime Allocated Memory"}, 1},
		{"Which company created the Go programming language?", []string{"Microsoft", "Apple", "Google", "Mozilla"}, 2},
	},
	2: {
		{"Which data structure is FIFO?", []string{"Stack", "Queue", "Tree", "Heap"}, 1},
		{"What port does HTTPS use by default?", []string{"80", "22", "443", "8080"}, 2},
		{"Which SQL keyword removes a table?", []string{"DELETE", "REMOVE", "TRUNCATE", "DROP"}, 3},
		{"What does DNS resolve?", []string{"Ports to services", "Names to addresses", "Routes to gateways", "Keys to values"}, 1},
		{"Which Git command creates a new branch and switches to it?", []string{"git checkout -b", "git branch -m", "git switch --detach", "git merge --new"}, 0},
	},
	3: {
		{"What is the average-case lookup complexity of a hash table?", []string{"O(n)", "O(log n)", "O(1)", "O(n log n)"}, 2},
		{"Which isolation level allows non-repeatable reads?", []string{"Serializable", "Repeatable Read", "Read Committed", "Snapshot"}, 2},
		{"In TCP, what does the SYN flag initiate?", []string{"Teardown", "Handshake", "Retransmit", "Keepalive"}, 1},
	},
	4: {
		{"Which scheduling class does the Linux CFS scheduler implement?", []string{"SCHED_FIFO", "SCHED_RR", "SCHED_NORMAL", "SCHED_DEADLINE"}, 2},
		{"What does the CAP theorem say a partitioned system must trade off?", []string{"Latency vs throughput", "Consistency vs availability", "Durability vs atomicity", "Scalability vs security"}, 1},
	},
}
