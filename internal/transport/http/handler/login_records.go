package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"communityboard/internal/app"
	"communityboard/internal/transport/http/middleware"
	"communityboard/internal/transport/http/response"
)

type LoginRecordHandler struct {
	loginRecordService *app.LoginRecordService
}

func NewLoginRecordHandler(loginRecordService *app.LoginRecordService) *LoginRecordHandler {
	return &LoginRecordHandler{loginRecordService: loginRecordService}
}

func (h *LoginRecordHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	entries, err := h.loginRecordService.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch login history failed")
		return
	}

	response.OK(c, entries)
}

func (h *LoginRecordHandler) Rankings(c *gin.Context) {
	rankings, err := h.loginRecordService.WeeklyRankings(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "compute rankings failed")
		return
	}

	response.OK(c, rankings)
}
