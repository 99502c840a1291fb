package app

import (
	"context"
	"errors"
	"strings"

	"communityboard/internal/model"
)

const commentPageSize = 10

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("not authorized to delete this comment")
)

// CommentStore is the slice of the comment repository the comment service
// needs.
type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByPost(ctx context.Context, postID, cursor uint, limit int) ([]model.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type CommentService struct {
	comments CommentStore
	posts    PostStore
}

// CommentPage is one cursor page. NextCursor is set whenever a full page
// came back; it signals "try again", not a guarantee of more rows.
type CommentPage struct {
	Comments   []model.Comment
	NextCursor *uint
}

func NewCommentService(comments CommentStore, posts PostStore) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

func (s *CommentService) CreateComment(ctx context.Context, postID, authorID uint, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	// The existence check can race a concurrent post delete; the FK on
	// post_id turns that into a late create failure.
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.Comment{
		Content:  content,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns up to 10 comments of a post, newest first, starting
// strictly after the cursor comment when one is given.
func (s *CommentService) ListComments(ctx context.Context, postID, cursor uint) (*CommentPage, error) {
	comments, err := s.comments.ListByPost(ctx, postID, cursor, commentPageSize)
	if err != nil {
		return nil, err
	}

	page := &CommentPage{Comments: comments}
	if len(comments) == commentPageSize {
		last := comments[len(comments)-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

// DeleteComment hard-deletes a comment. Both the comment's author and the
// parent post's author hold deletion authority.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	authorized := comment.AuthorID == requesterID
	if !authorized && comment.Post != nil && comment.Post.AuthorID == requesterID {
		authorized = true
	}
	if !authorized {
		return ErrCommentForbidden
	}

	return s.comments.Delete(ctx, commentID)
}
