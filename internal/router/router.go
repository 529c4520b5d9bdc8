package router

import (
	"errors"
	"log"
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/handlers"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/media"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/middleware"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/models"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/repositories"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/token"
	"github.com/AbhinavKRN/microsocial-native-assignment/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware configures global Echo middleware and the central error
// handler that produces the response envelope
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = HTTPErrorHandler
	log.Println("Global middleware configured.")
}

// HTTPErrorHandler maps the error taxonomy onto status codes and wraps every
// error response in the envelope. Unexpected failures are logged server-side
// and surface only as a generic message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, apperrors.ErrDuplicateUser):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrPostNotFound):
		status, message = http.StatusNotFound, err.Error()
	default:
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		}
	}

	if status == http.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v\n", c.Request().Method, c.Request().URL.Path, err)
		message = "Internal Server Error"
	}

	envelope := handlers.Envelope{Success: false, Message: message}
	if status == http.StatusBadRequest && !errors.Is(err, apperrors.ErrDuplicateUser) {
		envelope.Message = "Validation failed"
		envelope.Errors = []string{message}
	}

	if jsonErr := c.JSON(status, envelope); jsonErr != nil {
		log.Printf("Failed to write error response: %v\n", jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseAuthClient *firebaseauth.Client, store *media.Storage) {
	// AutoMigrate PostgreSQL models
	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check and static uploads - always accessible
	healthHandler := handlers.NewHealthHandler(db)
	e.GET("/health", healthHandler.Check)
	e.Static(media.PublicPrefix, store.Dir())
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "MicroSocial API - Use /auth, /posts and /users endpoints"})
	})

	// --- Initialize repositories and the session issuer ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenLifetime)
	authGuard := middleware.JWTAuth(issuer)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	authHandler := handlers.NewAuthHandler(userRepo, issuer, firebaseAuthClient)
	authHandler.RegisterPublicRoutes(authGroup)
	authHandler.RegisterProtectedRoutes(e.Group("/auth", authGuard))
	log.Println("Auth routes configured.")

	// --- Post and feed routes (require a bearer token) ---
	postHandler := handlers.NewPostHandler(postRepo, userRepo, store)
	postHandler.RegisterPostRoutes(e.Group("/posts", authGuard))
	log.Println("Post routes configured.")

	// --- User profile routes (require a bearer token) ---
	userHandler := handlers.NewUserHandler(userRepo, postRepo)
	userHandler.RegisterUserRoutes(e.Group("/users", authGuard))
	log.Println("User routes configured.")

	log.Println("All routes configured.")
}
