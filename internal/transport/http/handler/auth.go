package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/token"
	"github.com/ErlanBelekov/trade-tally/internal/transport/http/middleware"
	"github.com/ErlanBelekov/trade-tally/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.Session, error)
	Login(ctx context.Context, username, password string) (*usecase.Session, error)
	Refresh(ctx context.Context, claims *token.Claims) (*usecase.Session, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	FirstName  string `json:"firstName"  binding:"required"`
	LastName   string `json:"lastName"   binding:"required"`
	Username   string `json:"username"   binding:"required"`
	Password   string `json:"password"   binding:"required"`
	Email      string `json:"email"      binding:"required"`
	Profession string `json:"profession" binding:"required"`
}

type registerResponse struct {
	AuthToken string `json:"authToken"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	AuthToken string `json:"authToken"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
}

type userResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Profession string `json:"profession"`
}

// POST /users
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, "register", http.StatusUnprocessableEntity, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := checkEmail("email", req.Email); err != nil {
		writeError(c, h.logger, "register", http.StatusUnprocessableEntity, err)
		return
	}

	session, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Username:   req.Username,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Profession: req.Profession,
	})
	if err != nil {
		writeError(c, h.logger, "register", http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		AuthToken: session.Token.Raw,
		UserID:    session.User.ID,
		Username:  session.User.Username,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, "login", http.StatusBadRequest, err)
		return
	}

	session, err := h.authUsecase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, "login", http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, reasonAuthentication, errInvalidJWT, "authorization")
		return
	}

	session, err := h.authUsecase.Refresh(c.Request.Context(), claims)
	if errors.Is(err, domain.ErrUserNotFound) {
		abortWithError(c, http.StatusUnauthorized, reasonAuthentication, errInvalidJWT, "authorization")
		return
	}
	if err != nil {
		writeError(c, h.logger, "refresh token", http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

// GET /users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authUsecase.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list users", http.StatusBadRequest, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			ID:         u.ID,
			Username:   u.Username,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Profession: u.Profession,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func newSessionResponse(s *usecase.Session) sessionResponse {
	return sessionResponse{
		AuthToken: s.Token.Raw,
		UserID:    s.User.ID,
		Username:  s.User.Username,
		FullName:  s.User.FullName(),
	}
}
