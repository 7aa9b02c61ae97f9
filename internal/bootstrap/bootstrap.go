package bootstrap

import (
	"context"
	"fmt"

	"github.com/trustlane/kyb-service/internal/config"
	"github.com/trustlane/kyb-service/internal/core/ports"
	"github.com/trustlane/kyb-service/internal/core/usecase"
	"github.com/trustlane/kyb-service/internal/export"
	"github.com/trustlane/kyb-service/internal/infrastructure/extractor"
	"github.com/trustlane/kyb-service/internal/infrastructure/extractor/pdftext"
	"github.com/trustlane/kyb-service/internal/infrastructure/extractor/plaintext"
	"github.com/trustlane/kyb-service/internal/infrastructure/langdetect/whatlang"
	"github.com/trustlane/kyb-service/internal/infrastructure/queue/nats"
	"github.com/trustlane/kyb-service/internal/infrastructure/repository/postgres"
	"github.com/trustlane/kyb-service/internal/infrastructure/resilience"
	"github.com/trustlane/kyb-service/internal/infrastructure/storage/localfs"
	"github.com/trustlane/kyb-service/internal/kyb/aggregate"
	"github.com/trustlane/kyb-service/internal/kyb/classify"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Docs     ports.DocumentRepository
	Profiles ports.ProfileRepository

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	KYBUC     ports.KYBGenerator
	Exporter  *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	profiles := postgres.NewProfileRepository(db)
	if err := profiles.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure profiles schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	taxonomy, err := loadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}

	textExtractor := buildExtractor(storage)
	detector := whatlang.NewDetector()

	quickClassifier := classify.New(taxonomy, classify.QuickScoring())
	aggregateClassifier := classify.New(taxonomy, classify.AggregateScoring())
	aggregator := aggregate.New(aggregateClassifier, requiredFieldsPolicy(cfg.RequiredFinancials))

	ingestUC := usecase.NewIngestDocumentUseCase(docs, storage, queue)
	processUC := usecase.NewQuickClassifyUseCase(docs, textExtractor, detector, quickClassifier)
	kybUC := usecase.NewGenerateKYBUseCase(docs, profiles, textExtractor, aggregator, nil)
	exporter := export.NewService(profiles, nil)

	return &App{
		Config: cfg,

		Queue:    queue,
		Docs:     docs,
		Profiles: profiles,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		KYBUC:     kybUC,
		Exporter:  exporter,

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

func buildExtractor(storage ports.ObjectStorage) ports.TextExtractor {
	plain := plaintext.NewExtractor(storage)

	registry := extractor.NewRegistry(plain)
	registry.Register("application/pdf", pdftext.NewExtractor(storage), ".pdf")
	registry.Register("text/plain", plain, ".txt", ".text", ".md")
	return registry
}

func loadTaxonomy(path string) (classify.Taxonomy, error) {
	if path == "" {
		return classify.DefaultTaxonomy(), nil
	}
	taxonomy, err := classify.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	return taxonomy, nil
}

func requiredFieldsPolicy(name string) aggregate.RequiredFields {
	if name == "balance" {
		return aggregate.RequiredFieldsBalanceOnly()
	}
	return aggregate.RequiredFieldsFull()
}
