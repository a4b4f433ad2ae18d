package handler

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/kanban"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint answers with. Exactly one of the
// two fields is set.
type Response struct {
	ErrorMessage *string `json:"ErrorMessage"`
	ReturnValue  any     `json:"ReturnValue"`
}

func respond(c *gin.Context, status int, value any) {
	c.JSON(status, Response{ReturnValue: value})
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{ErrorMessage: &msg})
}

// respondError maps domain error kinds to status codes. Anything else is an
// internal failure and its message is not exposed.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var kerr *kanban.Error
	if !errors.As(err, &kerr) {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMessage(c, statusOf(kerr.Kind), kerr.Msg)
}

func statusOf(kind error) int {
	switch kind {
	case kanban.ErrValidation:
		return http.StatusBadRequest
	case kanban.ErrAuthorization:
		return http.StatusForbidden
	case kanban.ErrNotFound:
		return http.StatusNotFound
	case kanban.ErrState, kanban.ErrCapacity, kanban.ErrDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return v, true
}
