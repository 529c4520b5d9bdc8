package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPage(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likesCount int, err error)
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post with an empty like set and comment list
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPage retrieves one page of posts sorted by created_at descending,
// optionally scoped to an author, along with the total matching count.
func (r *MongoPostRepository) ListPage(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{}
	if authorID != "" {
		filter = bson.M{"author_id": authorID}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost writes the mutable fields of an already ownership-checked post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrPostNotFound
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":    post.Content,
			"image":      post.Image,
			"updated_at": post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// ToggleLike flips the user's membership in the post's like set with two
// conditional single-document updates. $addToSet/$pull are atomic per
// document, so concurrent toggles by different users both persist; there is
// no read-modify-write of the whole array.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, 0, apperrors.ErrPostNotFound
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// Add the user only if not already in the set
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
		after,
	).Decode(&post)
	if err == nil {
		return true, len(post.Likes), nil
	}
	if err != mongo.ErrNoDocuments {
		return false, 0, err
	}

	// Either the post does not exist or the user already likes it; $pull
	// distinguishes the two via the match on _id alone.
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$pull": bson.M{"likes": userID}},
		after,
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, 0, apperrors.ErrPostNotFound
		}
		return false, 0, err
	}
	return false, len(post.Likes), nil
}

// AddComment appends a comment to the post's embedded comment list
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return apperrors.ErrPostNotFound
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return fmt.Errorf("failed to append comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// CountByAuthor returns the number of posts authored by the given user
func (r *MongoPostRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"author_id": authorID})
}
