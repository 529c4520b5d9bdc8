package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/media"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/middleware"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/models"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts and the feed
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository // For author denormalization in feed responses
	media          *media.Storage
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, store *media.Storage) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		media:          store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("", h.CreatePost)
	g.GET("", h.GetPosts)
	g.GET("/:id", h.GetPost)
	g.PUT("/:id", h.UpdatePost)
	g.DELETE("/:id", h.DeletePost)
	g.POST("/:id/like", h.ToggleLike)
	g.POST("/:id/comments", h.CreateComment)
}

// EnrichedPost is a post with its author denormalized for display
type EnrichedPost struct {
	models.Post
	Author models.UserCompact `json:"author"`
}

// enrichPosts attaches compact author records, one user lookup per distinct
// author on the page
func enrichPosts(userRepo repositories.UserRepository, posts []models.Post) []EnrichedPost {
	authorMap := make(map[string]models.UserCompact)
	for _, p := range posts {
		if _, ok := authorMap[p.AuthorID]; ok {
			continue
		}
		if id, err := strconv.ParseUint(p.AuthorID, 10, 32); err == nil {
			if user, err := userRepo.GetUserByID(uint(id)); err == nil {
				authorMap[p.AuthorID] = user.ToCompact()
			}
		}
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = EnrichedPost{Post: p, Author: authorMap[p.AuthorID]}
	}
	return enriched
}

// parsePagination reads page/limit query params with the defaults applied
// for missing, non-numeric or out-of-range values
func parsePagination(c echo.Context) (page, limit int, skip int64) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit, int64((page - 1) * limit)
}

// listPostPage runs one paginated listing and wraps it in the feed envelope
func listPostPage(c echo.Context, postRepo repositories.PostRepository, userRepo repositories.UserRepository, authorID string) error {
	page, limit, skip := parsePagination(c)

	posts, total, err := postRepo.ListPage(c.Request().Context(), authorID, skip, int64(limit))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", echo.Map{
		"posts": enrichPosts(userRepo, posts),
		"pagination": Pagination{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalPosts:  total,
			HasMore:     skip+int64(len(posts)) < total,
		},
	})
}

// CreatePost creates a new post from a multipart form with an optional image
func (h *PostHandler) CreatePost(c echo.Context) error {
	authorID := strconv.FormatUint(uint64(middleware.UserIDFromContext(c)), 10)

	req := models.CreatePostRequest{Content: strings.TrimSpace(c.FormValue("content"))}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
	}

	if file, err := c.FormFile("image"); err == nil {
		imagePath, err := h.media.Save(file)
		if err != nil {
			return err
		}
		post.Image = imagePath
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}

	enriched := enrichPosts(h.userRepository, []models.Post{*post})
	return respond(c, http.StatusCreated, "Post created successfully", echo.Map{"post": enriched[0]})
}

// GetPosts returns the paginated reverse-chronological feed
func (h *PostHandler) GetPosts(c echo.Context) error {
	return listPostPage(c, h.postRepository, h.userRepository, "")
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	enriched := enrichPosts(h.userRepository, []models.Post{*post})
	return respond(c, http.StatusOK, "", echo.Map{"post": enriched[0]})
}

// UpdatePost updates an existing post's content and/or image. Ownership is
// checked before any mutation.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	requesterID := strconv.FormatUint(uint64(middleware.UserIDFromContext(c)), 10)
	postID := c.Param("id")

	req := models.UpdatePostRequest{Content: strings.TrimSpace(c.FormValue("content"))}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return apperrors.ErrForbidden
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if file, err := c.FormFile("image"); err == nil {
		imagePath, err := h.media.Save(file)
		if err != nil {
			return err
		}
		post.Image = imagePath
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return err
	}

	enriched := enrichPosts(h.userRepository, []models.Post{*post})
	return respond(c, http.StatusOK, "Post updated successfully", echo.Map{"post": enriched[0]})
}

// DeletePost deletes a post after the ownership check
func (h *PostHandler) DeletePost(c echo.Context) error {
	requesterID := strconv.FormatUint(uint64(middleware.UserIDFromContext(c)), 10)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return apperrors.ErrForbidden
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Post deleted successfully", echo.Map{})
}

// ToggleLike flips the caller's membership in the post's like set
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID := strconv.FormatUint(uint64(middleware.UserIDFromContext(c)), 10)

	liked, likesCount, err := h.postRepository.ToggleLike(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	return respond(c, http.StatusOK, message, echo.Map{
		"liked":      liked,
		"likesCount": likesCount,
	})
}

// CreateComment appends a comment to a post
func (h *PostHandler) CreateComment(c echo.Context) error {
	userID := strconv.FormatUint(uint64(middleware.UserIDFromContext(c)), 10)
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		UserID: userID,
		Text:   req.Text,
	}

	if err := h.postRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "Comment added successfully", echo.Map{"comment": comment})
}
