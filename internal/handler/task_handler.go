package handler

import (
	"net/http"
	"time"

	"taskboard/internal/kanban"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler struct {
	boards *kanban.BoardDirectory
	log    *zap.Logger
}

func NewTaskHandler(boards *kanban.BoardDirectory, log *zap.Logger) *TaskHandler {
	return &TaskHandler{boards: boards, log: log}
}

type taskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description" binding:"max=300"`
	DueDate     time.Time `json:"due_date" binding:"required"`
}

type moveTaskRequest struct {
	Column int `json:"column"`
}

type assignTaskRequest struct {
	Assignee string `json:"assignee" binding:"required,email"`
}

// Create godoc
// @Summary      Add a task to the board's backlog
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Board ID"
// @Param        body  body      taskRequest  true  "Task"
// @Success      201   {object}  Response
// @Failure      400   {object}  Response
// @Failure      409   {object}  Response
// @Router       /boards/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}

	b, ok := memberBoard(c, h.boards, h.log)
	if !ok {
		return
	}
	task, err := b.CreateTask(c.Request.Context(), c.GetString(middleware.UserEmailKey),
		req.DueDate, req.Title, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, ok := int64Param(c, "taskId")
	if !ok {
		return
	}
	b, ok := memberBoard(c, h.boards, h.log)
	if !ok {
		return
	}

	task, err := b.Task(taskID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}
	taskID, ok := int64Param(c, "taskId")
	if !ok {
		return
	}
	b, ok := memberBoard(c, h.boards, h.log)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := b.EditTask(ctx, c.GetString(middleware.UserEmailKey), taskID, req.DueDate, req.Title, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondTask(c, b, taskID)
}

// MoveTask advances the task from the column given in the body.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}
	taskID, ok := int64Param(c, "taskId")
	if !ok {
		return
	}
	b, ok := memberBoard(c, h.boards, h.log)
	if !ok {
		return
	}

	if err := b.MoveTask(c.Request.Context(), c.GetString(middleware.UserEmailKey), req.Column, taskID); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondTask(c, b, taskID)
}

func (h *TaskHandler) AssignTask(c *gin.Context) {
	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}
	taskID, ok := int64Param(c, "taskId")
	if !ok {
		return
	}
	b, ok := memberBoard(c, h.boards, h.log)
	if !ok {
		return
	}

	if err := b.AssignTask(c.Request.Context(), taskID, c.GetString(middleware.UserEmailKey), req.Assignee); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondTask(c, b, taskID)
}

// InProgress lists the caller's in-progress tasks across all boards.
func (h *TaskHandler) InProgress(c *gin.Context) {
	tasks := h.boards.ListInProgressTasks(c.GetString(middleware.UserEmailKey))
	respond(c, http.StatusOK, toTaskResponses(tasks))
}

func (h *TaskHandler) respondTask(c *gin.Context, b *kanban.Board, taskID int64) {
	task, err := b.Task(taskID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, toTaskResponse(task))
}
