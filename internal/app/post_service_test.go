package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityboard/internal/model"
)

type fakePostStore struct {
	posts map[uint]*model.Post

	listOut   []model.Post
	listTotal int64
	listErr   error

	created   *model.Post
	gotOffset int
	gotLimit  int
}

func (f *fakePostStore) Create(_ context.Context, post *model.Post) error {
	post.ID = 1
	post.Author = &model.User{Username: "홍길동"}
	f.created = post
	return nil
}

func (f *fakePostStore) GetByID(_ context.Context, id uint) (*model.Post, error) {
	return f.posts[id], nil
}

func (f *fakePostStore) List(_ context.Context, offset, limit int) ([]model.Post, int64, error) {
	f.gotOffset = offset
	f.gotLimit = limit
	return f.listOut, f.listTotal, f.listErr
}

func TestCreatePost(t *testing.T) {
	store := &fakePostStore{}
	svc := NewPostService(store)

	post, err := svc.CreatePost(context.Background(), 3, CreatePostInput{
		Title:   "first post",
		Content: "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(3), post.AuthorID)
	require.NotNil(t, post.Author)
	assert.Equal(t, "홍길동", post.Author.Username)
}

func TestCreatePost_EmptyFields(t *testing.T) {
	svc := NewPostService(&fakePostStore{})

	_, err := svc.CreatePost(context.Background(), 3, CreatePostInput{Title: "  ", Content: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreatePost(context.Background(), 3, CreatePostInput{Title: "t", Content: " "})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListPosts_Pagination(t *testing.T) {
	store := &fakePostStore{listTotal: 30, listOut: make([]model.Post, 20)}
	svc := NewPostService(store)

	page, err := svc.ListPosts(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, store.gotOffset)
	assert.Equal(t, 20, store.gotLimit)
	assert.Equal(t, int64(30), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)

	store.listOut = make([]model.Post, 10)
	page, err = svc.ListPosts(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 20, store.gotOffset)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Posts, 10)
}

func TestListPosts_InvalidPageDefaultsToFirst(t *testing.T) {
	store := &fakePostStore{listTotal: 0}
	svc := NewPostService(store)

	for _, page := range []int{0, -3} {
		result, err := svc.ListPosts(context.Background(), page)
		require.NoError(t, err)
		assert.Equal(t, 0, store.gotOffset)
		assert.Equal(t, 1, result.Page)
	}
}

func TestListPosts_TotalPagesRoundsUp(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{0, 0},
		{1, 1},
		{20, 1},
		{21, 2},
		{40, 2},
		{41, 3},
	}

	for _, tt := range tests {
		store := &fakePostStore{listTotal: tt.total}
		svc := NewPostService(store)

		page, err := svc.ListPosts(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, tt.want, page.TotalPages, "total=%d", tt.total)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	svc := NewPostService(&fakePostStore{posts: map[uint]*model.Post{}})

	_, err := svc.GetPost(context.Background(), 77)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestGetPost_Found(t *testing.T) {
	svc := NewPostService(&fakePostStore{posts: map[uint]*model.Post{
		8: {ID: 8, Title: "found"},
	}})

	post, err := svc.GetPost(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "found", post.Title)
}
