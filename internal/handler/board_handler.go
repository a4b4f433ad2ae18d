package handler

import (
	"net/http"

	"taskboard/internal/kanban"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BoardHandler struct {
	boards *kanban.BoardDirectory
	users  *kanban.UserDirectory
	log    *zap.Logger
}

func NewBoardHandler(boards *kanban.BoardDirectory, users *kanban.UserDirectory, log *zap.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, users: users, log: log}
}

type createBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type transferOwnerRequest struct {
	NewOwner string `json:"new_owner" binding:"required,email"`
}

type limitColumnRequest struct {
	Limit int `json:"limit"`
}

// Create godoc
// @Summary      Create a board owned by the caller
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBoardRequest  true  "Board"
// @Success      201   {object}  Response
// @Failure      409   {object}  Response
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}

	b, err := h.boards.CreateBoard(c.Request.Context(), c.GetString(middleware.UserEmailKey), req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, toBoardResponse(b))
}

// GetAll lists the boards the caller is a member of.
func (h *BoardHandler) GetAll(c *gin.Context) {
	boards := h.boards.UserBoards(c.GetString(middleware.UserEmailKey))
	out := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, toBoardResponse(b))
	}
	respond(c, http.StatusOK, out)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	b, ok := h.memberBoard(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, toBoardResponse(b))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.boards.RemoveBoard(c.Request.Context(), c.GetString(middleware.UserEmailKey), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *BoardHandler) Join(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.boards.JoinBoard(c.Request.Context(), c.GetString(middleware.UserEmailKey), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *BoardHandler) Leave(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.boards.LeaveBoard(c.Request.Context(), c.GetString(middleware.UserEmailKey), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// TransferOwner godoc
// @Summary      Hand the board to another member
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Board ID"
// @Param        body  body      transferOwnerRequest  true  "New owner"
// @Success      200   {object}  Response
// @Failure      403   {object}  Response
// @Failure      409   {object}  Response
// @Router       /boards/{id}/owner [post]
func (h *BoardHandler) TransferOwner(c *gin.Context) {
	var req transferOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}

	b, ok := h.memberBoard(c)
	if !ok {
		return
	}
	if !h.users.Exists(req.NewOwner) {
		respondMessage(c, http.StatusNotFound, "User "+req.NewOwner+" does not exist")
		return
	}
	if err := b.TransferOwner(c.Request.Context(), c.GetString(middleware.UserEmailKey), req.NewOwner); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, toBoardResponse(b))
}

func (h *BoardHandler) LimitColumn(c *gin.Context) {
	var req limitColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}
	ordinal, ok := intParam(c, "ordinal")
	if !ok {
		return
	}

	b, ok := h.memberBoard(c)
	if !ok {
		return
	}
	if err := b.LimitColumn(c.Request.Context(), ordinal, req.Limit); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *BoardHandler) GetColumn(c *gin.Context) {
	ordinal, ok := intParam(c, "ordinal")
	if !ok {
		return
	}

	b, ok := h.memberBoard(c)
	if !ok {
		return
	}
	col, err := b.Column(ordinal)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, toColumnResponse(col))
}

// memberBoard resolves the :id board for the caller and writes the error
// response when it can not.
func (h *BoardHandler) memberBoard(c *gin.Context) (*kanban.Board, bool) {
	return memberBoard(c, h.boards, h.log)
}

func memberBoard(c *gin.Context, boards *kanban.BoardDirectory, log *zap.Logger) (*kanban.Board, bool) {
	id, ok := int64Param(c, "id")
	if !ok {
		return nil, false
	}
	b, err := boards.GetForMember(c.GetString(middleware.UserEmailKey), id)
	if err != nil {
		respondError(c, log, err)
		return nil, false
	}
	return b, true
}
