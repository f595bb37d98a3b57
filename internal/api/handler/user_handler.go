package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen/internal/api/middleware"
	"coursegen/internal/service"
)

// UserHandler handles user bootstrap
type UserHandler struct {
	userService    *service.UserService
	authConfigured bool
}

// NewUserHandler creates a new user handler. authConfigured is false when no
// token verification key is set, which is reported to anonymous callers.
func NewUserHandler(userService *service.UserService, authConfigured bool) *UserHandler {
	return &UserHandler{userService: userService, authConfigured: authConfigured}
}

// Ensure handles user bootstrap requests
// @Summary Create or load the caller's user
// @Description Returns the signed-in user's row, creating it with starter credits on first sight. Anonymous callers and storage failures get a fallback user instead of an error.
// @Tags User
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.UserResponse}
// @Router /api/user [post]
func (h *UserHandler) Ensure(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	resp := h.userService.Ensure(c.Request.Context(), identity)
	if identity == nil && !h.authConfigured {
		resp.AuthUnavailable = true
	}
	respondSuccess(c, http.StatusOK, resp)
}
