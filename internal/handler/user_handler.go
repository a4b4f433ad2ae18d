package handler

import (
	"net/http"

	"taskboard/internal/kanban"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenIssuer hands out bearer tokens after a successful login.
type TokenIssuer interface {
	GenerateToken(email string) (string, error)
}

type UserHandler struct {
	users  *kanban.UserDirectory
	tokens TokenIssuer
	log    *zap.Logger
}

func NewUserHandler(users *kanban.UserDirectory, tokens TokenIssuer, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, log: log}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type tokenResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      201   {object}  Response
// @Failure      400   {object}  Response
// @Failure      409   {object}  Response
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.issueToken(c, http.StatusCreated, u.Email())
}

// Login godoc
// @Summary      Log in and receive a bearer token
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      200   {object}  Response
// @Failure      403   {object}  Response
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}

	u, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.issueToken(c, http.StatusOK, u.Email())
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.GetString(middleware.UserEmailKey)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := c.GetString(middleware.UserEmailKey)
	if err := h.users.ChangePassword(c.Request.Context(), email, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *UserHandler) issueToken(c *gin.Context, status int, email string) {
	token, err := h.tokens.GenerateToken(email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, status, tokenResponse{Email: email, Token: token})
}
