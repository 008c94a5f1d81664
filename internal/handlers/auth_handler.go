package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/services"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
}

func NewAuthHandler(userService services.UserService, authService services.AuthService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService}
}

// @Summary      Create an account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "New account"
// @Success      201     {object}  models.User
// @Failure      400     {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.setSession(c, user.ID); err != nil {
		log.Printf("[auth][signup] token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  models.User
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.setSession(c, user.ID); err != nil {
		log.Printf("[auth][login] token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Log out
// @Tags         Auth
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully!"})
}

// Check returns the authenticated user, for session restore on page load.
func (h *AuthHandler) Check(c *gin.Context) {
	user, err := h.userService.GetByID(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.userService.GetByID(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// @Summary      Update profile
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        profile  body      models.UpdateProfileRequest  true  "Fields to update"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/auth/update-profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "updatedUser": user})
}

func (h *AuthHandler) setSession(c *gin.Context, userID int) error {
	token, err := h.authService.GenerateToken(userID)
	if err != nil {
		return err
	}
	maxAge := int(h.authService.TokenTTL().Seconds())
	c.SetCookie("token", token, maxAge, "/", "", false, true)
	return nil
}
