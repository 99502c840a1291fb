package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"communityboard/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error; err != nil {
		return fmt.Errorf("reload comment failed: %w", err)
	}
	return nil
}

// GetByID loads the comment together with its parent post, which carries
// the post author needed for the deletion authority check.
func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Post").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query comment by id failed: %w", err)
	}
	return &comment, nil
}

// ListByPost returns up to limit comments of a post, newest first. A
// non-zero cursor positions the page strictly after the comment with that
// id in the (created_at DESC, id DESC) ordering; the cursor row itself is
// skipped. An unknown cursor yields an empty page.
func (r *CommentRepository) ListByPost(ctx context.Context, postID, cursor uint, limit int) ([]model.Comment, error) {
	q := r.db.WithContext(ctx).Where("post_id = ?", postID)

	if cursor != 0 {
		var pivot model.Comment
		if err := r.db.WithContext(ctx).Select("id", "created_at").First(&pivot, cursor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []model.Comment{}, nil
			}
			return nil, fmt.Errorf("query cursor comment failed: %w", err)
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", pivot.CreatedAt, pivot.CreatedAt, pivot.ID)
	}

	var comments []model.Comment
	if err := q.
		Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error; err != nil {
		return fmt.Errorf("delete comment failed: %w", err)
	}
	return nil
}
