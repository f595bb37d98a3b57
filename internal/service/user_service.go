package service

import (
	"context"
	"strings"

	"coursegen/internal/models"
	"coursegen/internal/store"
	"coursegen/internal/util"
)

// UserService bootstraps the caller's user row
type UserService struct {
	users  store.UserRepo
	logger *util.Logger
}

// NewUserService creates a new user service
func NewUserService(users store.UserRepo) *UserService {
	return &UserService{
		users:  users,
		logger: util.NewLogger("UserService"),
	}
}

// Ensure returns the caller's user, creating it on first sight. It never fails:
// anonymous callers get a guest and storage failures get a placeholder.
func (us *UserService) Ensure(ctx context.Context, identity *models.Identity) *models.UserResponse {
	if identity == nil || strings.TrimSpace(identity.Email) == "" {
		return guestUser()
	}

	email := strings.TrimSpace(identity.Email)
	name := displayName(identity)

	user, err := us.users.GetOrCreate(ctx, email, name)
	if err != nil {
		us.logger.Error("Error creating/loading user", err)
		resp := &models.UserResponse{Email: &email, Name: name, Fallback: true}
		if store.IsUnavailable(err) {
			resp.DBUnavailable = true
		}
		return resp
	}

	return &models.UserResponse{
		ID:      user.ID,
		Email:   &user.Email,
		Name:    user.Name,
		Credits: user.Credits,
	}
}

func guestUser() *models.UserResponse {
	return &models.UserResponse{Name: "Guest", Fallback: true}
}

// displayName picks the best available name from the identity's claims
func displayName(identity *models.Identity) string {
	if name := strings.TrimSpace(identity.Name); name != "" {
		return name
	}
	parts := []string{}
	for _, p := range []string{identity.FirstName, identity.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if u := strings.TrimSpace(identity.Username); u != "" {
		return u
	}
	if local := strings.SplitN(identity.Email, "@", 2)[0]; local != "" {
		return local
	}
	return "Guest"
}
