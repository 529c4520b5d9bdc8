package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed post stored in MongoDB. The like set and the
// comment list are embedded in the post document; there is no cap on
// comment growth beyond the per-comment length limit.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  string             `json:"author_id" bson:"author_id"` // User ID of the post author, immutable after creation
	Content   string             `json:"content" bson:"content"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"` // Relative path under /uploads, empty when absent
	Likes     []string           `json:"likes" bson:"likes"`                     // Set of user IDs, no duplicates
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment is embedded in its parent post and is append-only
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the multipart form body for creating a new post
type CreatePostRequest struct {
	Content string `form:"content" validate:"required,min=1,max=1000"`
}

// UpdatePostRequest defines the multipart form body for updating an existing post
type UpdatePostRequest struct {
	Content string `form:"content" validate:"omitempty,min=1,max=1000"`
}

// CreateCommentRequest defines the request body for appending a comment
type CreateCommentRequest struct {
	Text string `json:"text" form:"text" validate:"required,min=1,max=500"`
}

// PostPage is one page of the reverse-chronological feed
type PostPage struct {
	Posts []Post
	Total int64
}
