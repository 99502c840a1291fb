package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityboard/internal/model"
)

type fakeCommentStore struct {
	comments map[uint]*model.Comment

	listOut   []model.Comment
	gotPostID uint
	gotCursor uint
	gotLimit  int

	created *model.Comment
	deleted []uint
}

func (f *fakeCommentStore) Create(_ context.Context, comment *model.Comment) error {
	comment.ID = 100
	comment.Author = &model.User{Username: "홍길동"}
	f.created = comment
	return nil
}

func (f *fakeCommentStore) GetByID(_ context.Context, id uint) (*model.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeCommentStore) ListByPost(_ context.Context, postID, cursor uint, limit int) ([]model.Comment, error) {
	f.gotPostID = postID
	f.gotCursor = cursor
	f.gotLimit = limit
	return f.listOut, nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestCreateComment(t *testing.T) {
	posts := &fakePostStore{posts: map[uint]*model.Post{4: {ID: 4}}}
	comments := &fakeCommentStore{}
	svc := NewCommentService(comments, posts)

	comment, err := svc.CreateComment(context.Background(), 4, 9, "nice post")
	require.NoError(t, err)

	assert.Equal(t, uint(4), comment.PostID)
	assert.Equal(t, uint(9), comment.AuthorID)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "홍길동", comment.Author.Username)
}

func TestCreateComment_PostMissing(t *testing.T) {
	posts := &fakePostStore{posts: map[uint]*model.Post{}}
	comments := &fakeCommentStore{}
	svc := NewCommentService(comments, posts)

	_, err := svc.CreateComment(context.Background(), 4, 9, "nice post")
	require.ErrorIs(t, err, ErrPostNotFound)
	assert.Nil(t, comments.created)
}

func TestListComments_FullPageSetsNextCursor(t *testing.T) {
	listed := make([]model.Comment, 10)
	for i := range listed {
		listed[i] = model.Comment{ID: uint(50 - i)}
	}
	comments := &fakeCommentStore{listOut: listed}
	svc := NewCommentService(comments, &fakePostStore{})

	page, err := svc.ListComments(context.Background(), 4, 0)
	require.NoError(t, err)

	assert.Equal(t, uint(4), comments.gotPostID)
	assert.Equal(t, uint(0), comments.gotCursor)
	assert.Equal(t, 10, comments.gotLimit)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, uint(41), *page.NextCursor)
}

func TestListComments_ShortPageHasNoCursor(t *testing.T) {
	comments := &fakeCommentStore{listOut: make([]model.Comment, 3)}
	svc := NewCommentService(comments, &fakePostStore{})

	page, err := svc.ListComments(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Nil(t, page.NextCursor)
}

func TestListComments_PassesCursorThrough(t *testing.T) {
	comments := &fakeCommentStore{}
	svc := NewCommentService(comments, &fakePostStore{})

	_, err := svc.ListComments(context.Background(), 4, 41)
	require.NoError(t, err)
	assert.Equal(t, uint(41), comments.gotCursor)
}

func TestDeleteComment_ByCommentAuthor(t *testing.T) {
	comments := &fakeCommentStore{comments: map[uint]*model.Comment{
		7: {ID: 7, AuthorID: 2, Post: &model.Post{AuthorID: 5}},
	}}
	svc := NewCommentService(comments, &fakePostStore{})

	require.NoError(t, svc.DeleteComment(context.Background(), 7, 2))
	assert.Equal(t, []uint{7}, comments.deleted)
}

func TestDeleteComment_ByPostAuthor(t *testing.T) {
	comments := &fakeCommentStore{comments: map[uint]*model.Comment{
		7: {ID: 7, AuthorID: 2, Post: &model.Post{AuthorID: 5}},
	}}
	svc := NewCommentService(comments, &fakePostStore{})

	require.NoError(t, svc.DeleteComment(context.Background(), 7, 5))
	assert.Equal(t, []uint{7}, comments.deleted)
}

func TestDeleteComment_ThirdPartyForbidden(t *testing.T) {
	comments := &fakeCommentStore{comments: map[uint]*model.Comment{
		7: {ID: 7, AuthorID: 2, Post: &model.Post{AuthorID: 5}},
	}}
	svc := NewCommentService(comments, &fakePostStore{})

	err := svc.DeleteComment(context.Background(), 7, 99)
	require.ErrorIs(t, err, ErrCommentForbidden)
	assert.Empty(t, comments.deleted)
}

func TestDeleteComment_Missing(t *testing.T) {
	comments := &fakeCommentStore{comments: map[uint]*model.Comment{}}
	svc := NewCommentService(comments, &fakePostStore{})

	err := svc.DeleteComment(context.Background(), 7, 2)
	require.ErrorIs(t, err, ErrCommentNotFound)
}
