package main

import (
	"context"
	"log"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/media"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/router"
	"github.com/AbhinavKRN/microsocial-native-assignment/pkg/config"
	"github.com/AbhinavKRN/microsocial-native-assignment/pkg/firebase"
	"github.com/AbhinavKRN/microsocial-native-assignment/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase when credentials are configured; otherwise the
	// firebase-login route is simply not registered
	var firebaseAuthClient *firebaseauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("No Firebase credentials configured, Firebase login disabled.")
	}

	// Initialize upload storage
	store, err := media.NewStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db, firebaseAuthClient, store)

	// Start server
	e.Logger.Fatal(e.Start(cfg.Host + ":" + cfg.Port))
}
