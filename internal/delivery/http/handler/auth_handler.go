package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	"github.com/codedpool/ReWear-Odoo/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  entity.User
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input entity.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	user, err := h.authService.Register(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  entity.LoginResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input entity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	resp, err := h.authService.Login(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.authService.Profile(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
