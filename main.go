package main

import (
	"context"
	"flag"
	"log"
	"os"

	api "rfp-backend/cmd/api"
	"rfp-backend/internal/ingest"
	proposaldomain "rfp-backend/internal/proposal/domain"
	proposalRepo "rfp-backend/internal/proposal/repository"
	rfpDelivery "rfp-backend/internal/rfp/delivery"
	rfpdomain "rfp-backend/internal/rfp/domain"
	rfpRepo "rfp-backend/internal/rfp/repository"
	rfpUsecase "rfp-backend/internal/rfp/usecase"
	"rfp-backend/pkg/ai"
	"rfp-backend/pkg/config"
	"rfp-backend/pkg/database"
	"rfp-backend/pkg/gmail"
	"rfp-backend/pkg/setup"
)

func main() {
	runSetup := flag.Bool("setup", false, "run the interactive configuration wizard and exit")
	flag.Parse()

	if *runSetup {
		if err := setup.Run(os.Stdin, os.Stdout); err != nil {
			log.Fatal("Setup failed:", err)
		}
		return
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&rfpdomain.RFP{}, &proposaldomain.Proposal{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	rfpRepository := rfpRepo.NewGormRFPRepository(db)
	proposalRepository := proposalRepo.NewGormProposalRepository(db)

	// Initialize AI extraction provider
	extractor, err := ai.NewExtractorService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI provider:", err)
	}

	// Initialize Gmail service (credential file + interactive consent on first run)
	gmailService := gmail.NewService(cfg.GoogleCredentialsPath, cfg.GoogleTokenPath, gmail.StdinConsent)

	// Initialize use cases
	rfpUsecaseInstance := rfpUsecase.NewRFPUsecase(rfpRepository, proposalRepository, extractor, gmailService)

	// Start the vendor-reply ingestion poller
	orchestrator := ingest.NewOrchestrator(
		func(ctx context.Context) (ingest.MailboxClient, error) {
			return gmailService.Authorize(ctx)
		},
		extractor,
		proposalRepository,
	)
	poller := ingest.NewPoller(orchestrator, cfg.PollInterval)
	poller.Start()
	defer poller.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(rfpDelivery.NewRFPHandler(rfpUsecaseInstance))

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
