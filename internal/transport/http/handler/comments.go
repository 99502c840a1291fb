package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"communityboard/internal/app"
	"communityboard/internal/model"
	"communityboard/internal/transport/http/middleware"
	"communityboard/internal/transport/http/response"
)

type CommentHandler struct {
	commentService *app.CommentService
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type commentView struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	PostID    uint       `json:"post_id"`
	CreatedAt time.Time  `json:"created_at"`
	Author    authorView `json:"author"`
}

func NewCommentHandler(commentService *app.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), postID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPostNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create comment failed")
		}
		return
	}

	response.OK(c, newCommentView(comment))
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	// A malformed cursor is treated as absent rather than rejected.
	var cursor uint
	if raw := c.Query("cursor"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			cursor = uint(parsed)
		}
	}

	page, err := h.commentService.ListComments(c.Request.Context(), postID, cursor)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list comments failed")
		return
	}

	views := make([]commentView, 0, len(page.Comments))
	for i := range page.Comments {
		views = append(views, newCommentView(&page.Comments[i]))
	}

	response.OK(c, gin.H{
		"comments":    views,
		"next_cursor": page.NextCursor,
	})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, app.ErrCommentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrCommentForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete comment failed")
		}
		return
	}

	response.OK(c, gin.H{"message": "comment deleted"})
}

func newCommentView(comment *model.Comment) commentView {
	view := commentView{
		ID:        comment.ID,
		Content:   comment.Content,
		PostID:    comment.PostID,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		view.Author = authorView{Username: comment.Author.Username}
	}
	return view
}
