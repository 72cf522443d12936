package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"go-sentinel/config"
	"go-sentinel/cronjobs"
	"go-sentinel/db"
	"go-sentinel/emergency"
	"go-sentinel/notify"
	"go-sentinel/route"
	"go-sentinel/routes"
	"go-sentinel/tracking"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	cfg := config.Config

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	// Family notification channel, optionally enriched with a composed
	// message when an OpenAI key is present.
	notifier := notify.NewWebhookNotifier(cfg.Alerts.WebhookURL)
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		fmt.Println("OPENAI_API_KEY loaded, alert messages will be composed")
		notifier.Composer = notify.NewComposer(apiKey)
	}

	trackers := tracking.NewManager(db.FirestoreRelay{Client: firestoreClient})
	routeStore := route.NewStore()
	planner := route.NewPlanner(cfg.Routing.OSRMBaseURL)

	emergencies := emergency.NewManager(
		time.Duration(cfg.Emergency.CountdownSec)*time.Second,
		notifier,
		trackers.Current,
	)
	defer emergencies.CloseAll()

	// Connection-loss watchdog
	cronjobs.InitCronJobs(trackers, emergencies, routeStore, time.Duration(cfg.Tracking.StaleAfterSec)*time.Second)

	r := routes.SetupRouter(firestoreClient, trackers, emergencies, notifier, planner, routeStore)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
