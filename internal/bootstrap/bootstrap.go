package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tevinharrell123/ai-tax-buddy/internal/config"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/ports"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/questiongen"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/usecase"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/extractor/doctext"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/llm/ollama"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/queue/nats"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/repository/postgres"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/resilience"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/session/memory"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	SessionUC ports.SessionService
	DocUC     ports.DocumentService
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	fieldRepo := postgres.NewFieldRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaModel, executor)
	fieldParser := ollama.NewFieldParser(ollamaClient)
	questionService := ollama.NewQuestionGenerator(ollamaClient)

	sessions := memory.New()
	localGen := questiongen.New(questiongen.UUIDGenerator{})
	extractor := doctext.NewExtractor(storage)

	sessionUC := usecase.NewSessionUseCase(sessions, localGen, questionService, questiongen.UUIDGenerator{})
	docUC := usecase.NewDocumentUseCase(sessions, docRepo, fieldRepo, storage, queue, logger)
	processUC := usecase.NewProcessDocumentUseCase(docRepo, fieldRepo, extractor, fieldParser)

	return &App{
		Config: cfg,
		Queue:  queue,

		SessionUC: sessionUC,
		DocUC:     docUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
