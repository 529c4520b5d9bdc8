package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/middleware"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/models"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/repositories"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/token"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	issuer         *token.Issuer
	firebaseAuth   *auth.Client // nil when Firebase login is not configured
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, issuer *token.Issuer, firebaseAuthClient *auth.Client) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		issuer:         issuer,
		firebaseAuth:   firebaseAuthClient,
	}
}

// RegisterPublicRoutes registers the routes reachable without a token
func (h *AuthHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// RegisterProtectedRoutes registers the token-guarded auth routes
func (h *AuthHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
	g.PUT("/profile", h.UpdateProfile)
}

// Register handles user registration with username, email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Case-sensitive duplicate check on stored username OR email
	if _, err := h.userRepository.GetUserByUsernameOrEmail(req.Username, req.Email); err == nil {
		return apperrors.ErrDuplicateUser
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return err
	}

	t, err := h.issuer.Issue(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after registration")
	}

	return respond(c, http.StatusCreated, "User registered successfully", echo.Map{
		"token": t,
		"user":  user,
	})
}

// Login handles authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	t, err := h.issuer.Issue(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return respond(c, http.StatusOK, "Login successful", echo.Map{
		"token": t,
		"user":  user,
	})
}

// Me returns the authenticated user's own record
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", echo.Map{"user": user})
}

// UpdateProfile updates the authenticated user's avatar and bio
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}

	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Profile updated successfully", echo.Map{"user": user})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT,
// creating the user record on first sign-in
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	idToken, err := h.firebaseAuth.VerifyIDToken(context.Background(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := idToken.Claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Firebase token carries no email")
	}

	user, err := h.userRepository.GetUserByEmail(email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}
		// First sign-in: derive a username from the email local part,
		// disambiguated with the Firebase UID when taken
		username := strings.SplitN(email, "@", 2)[0]
		if _, lookupErr := h.userRepository.GetUserByUsernameOrEmail(username, email); lookupErr == nil {
			username = fmt.Sprintf("%s-%.8s", username, idToken.UID)
		}
		user = &models.User{
			Username: username,
			Email:    email,
		}
		if err := h.userRepository.CreateUser(user); err != nil {
			return err
		}
	}

	t, err := h.issuer.Issue(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return respond(c, http.StatusOK, "Login successful", echo.Map{
		"token": t,
		"user":  user,
	})
}
