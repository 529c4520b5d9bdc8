package handlers_test

import (
	"context"
	"sync"
	"time"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository for handler tests
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperrors.ErrDuplicateUser
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsernameOrEmail(username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

// fakePostRepo is an in-memory PostRepository. Posts are kept in insertion
// order; ListPage walks them newest-first, matching the created_at
// descending sort of the Mongo implementation.
type fakePostRepo struct {
	mu    sync.Mutex
	posts []*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{}
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	r.posts = append(r.posts, post)
	return nil
}

func (r *fakePostRepo) find(id string) *models.Post {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return p
		}
	}
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.find(id); p != nil {
		clone := *p
		return &clone, nil
	}
	return nil, apperrors.ErrPostNotFound
}

func (r *fakePostRepo) ListPage(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []models.Post{}
	for i := len(r.posts) - 1; i >= 0; i-- {
		p := r.posts[i]
		if authorID == "" || p.AuthorID == authorID {
			matched = append(matched, *p)
		}
	}

	total := int64(len(matched))
	if skip >= total {
		return []models.Post{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (r *fakePostRepo) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.find(id)
	if existing == nil {
		return apperrors.ErrPostNotFound
	}
	existing.Content = post.Content
	existing.Image = post.Image
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrPostNotFound
}

func (r *fakePostRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := r.find(postID)
	if post == nil {
		return false, 0, apperrors.ErrPostNotFound
	}
	for i, id := range post.Likes {
		if id == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return false, len(post.Likes), nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return true, len(post.Likes), nil
}

func (r *fakePostRepo) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := r.find(postID)
	if post == nil {
		return apperrors.ErrPostNotFound
	}
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	post.Comments = append(post.Comments, *comment)
	return nil
}

func (r *fakePostRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}
