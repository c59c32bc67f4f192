package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/tasktamer/internal/cli"
	"github.com/alexanderramin/tasktamer/internal/db"
	"github.com/alexanderramin/tasktamer/internal/dialogue"
	"github.com/alexanderramin/tasktamer/internal/intelligence"
	"github.com/alexanderramin/tasktamer/internal/llm"
	"github.com/alexanderramin/tasktamer/internal/motivation"
	"github.com/alexanderramin/tasktamer/internal/repository"
	"github.com/alexanderramin/tasktamer/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	// Determine DB path: env var or default ~/.tasktamer/tasktamer.db
	dbPath := os.Getenv("TASKTAMER_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tasktamer", "tasktamer.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	conversationRepo := repository.NewSQLiteConversationRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire the AI client. Call logging goes to stderr so piped output stays clean.
	llmCfg := llm.LoadConfig()
	var llmObserver llm.Observer = llm.NoopObserver{}
	var motivationObserver motivation.Observer = motivation.NoopObserver{}
	var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
	if llmCfg.LogCalls {
		llmObserver = llm.NewLogObserver(os.Stderr)
		motivationObserver = motivation.NewLogObserver(os.Stderr)
		useCaseObserver = service.NewLogUseCaseObserver(os.Stderr)
	}
	client := llm.NewHTTPClient(llmCfg, llmObserver)

	motivations := motivation.NewCache(
		motivation.LoadConfig(),
		intelligence.NewMotivationService(client, ""),
		motivationObserver,
	)
	engine := dialogue.NewEngine(
		intelligence.NewAssistantService(client, ""),
		motivations,
		dialogue.DefaultPhrases(),
		service.NewCompletionListener(useCaseObserver),
	)

	app := &cli.App{
		Conversations: service.NewConversationService(conversationRepo, uow, engine, useCaseObserver),
	}

	// Detect interactive terminal for the chat entrypoint and prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
