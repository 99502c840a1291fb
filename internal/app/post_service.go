package app

import (
	"context"
	"errors"
	"strings"

	"communityboard/internal/model"
)

const postPageSize = 20

var ErrPostNotFound = errors.New("post not found")

// PostStore is the slice of the post repository the post service needs.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]model.Post, int64, error)
}

type PostService struct {
	posts PostStore
}

type CreatePostInput struct {
	Title   string
	Content string
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []model.Post
	Total      int64
	Page       int
	TotalPages int
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint, input CreatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	post := &model.Post{
		Title:    title,
		Content:  input.Content,
		AuthorID: authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns the given 1-indexed page, 20 posts per page, newest
// first. Pages below 1 fall back to 1.
func (s *PostService) ListPosts(ctx context.Context, page int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := s.posts.List(ctx, (page-1)*postPageSize, postPageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + postPageSize - 1) / postPageSize)
	return &PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}
