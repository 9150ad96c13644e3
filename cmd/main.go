package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/config"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/db"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/handlers"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to MongoDB
	client, err := db.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	store := db.NewStore(client.Database(cfg.Database))
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureIndexes(indexCtx); err != nil {
		log.Printf("Warning: %v", err)
	}
	cancel()

	// Initialize services and handlers
	mailer := services.NewMailer(services.MailerConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		User:       cfg.SMTPUser,
		Password:   cfg.SMTPPass,
		From:       cfg.MailFrom,
		AdminEmail: cfg.AdminEmail,
	})
	providers := map[models.PaymentMethod]services.PaymentProvider{
		models.MethodGateway: services.NewGatewayClient(cfg.GatewayBaseURL, cfg.GatewaySecretKey, cfg.GatewayCurrency),
		models.MethodPayPal: services.NewPayPalClient(context.Background(), services.PayPalConfig{
			BaseURL:      cfg.PayPalBaseURL,
			ClientID:     cfg.PayPalClientID,
			ClientSecret: cfg.PayPalClientSecret,
			Currency:     cfg.PayPalCurrency,
			ReturnURL:    cfg.PayPalReturnURL,
			CancelURL:    cfg.PayPalCancelURL,
		}),
	}

	submissionService := services.NewSubmissionService(store, mailer)
	formHandler := handlers.NewFormHandler(submissionService)

	donationService := services.NewDonationService(store, mailer, providers, cfg.Bank)
	donationHandler := handlers.NewDonationHandler(donationService)

	router := handlers.NewRouter(formHandler, donationHandler)

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      handlers.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
