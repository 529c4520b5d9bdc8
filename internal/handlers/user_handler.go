package handlers

import (
	"net/http"
	"strconv"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles public user profile requests
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/:id", h.GetUser)
	g.GET("/:id/posts", h.GetUserPosts)
}

// GetUser returns a user's public profile with their post count
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		return err
	}

	// Posts store author ids in canonical decimal form; re-format the
	// parsed id so inputs like "07" still match
	postCount, err := h.postRepository.CountByAuthor(c.Request().Context(), strconv.FormatUint(id, 10))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", echo.Map{
		"user":      user,
		"postCount": postCount,
	})
}

// GetUserPosts returns the paginated feed scoped to one author
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	// Resolve the user first so an unknown id is a 404, not an empty feed
	if _, err := h.userRepository.GetUserByID(uint(id)); err != nil {
		return err
	}

	return listPostPage(c, h.postRepository, h.userRepository, strconv.FormatUint(id, 10))
}
