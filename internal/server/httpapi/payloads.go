package httpapi

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/server/models"
	"github.com/dmitrijs2005/userhub/internal/server/services"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)
	hasUpperPattern = regexp.MustCompile(`[A-Z]`)
	hasLowerPattern = regexp.MustCompile(`[a-z]`)
	hasDigitPattern = regexp.MustCompile(`\d`)
)

func passwordStrength(value interface{}) error {
	s, _ := value.(string)
	if len(s) < 8 {
		return errors.New("must be at least 8 characters")
	}
	// bcrypt only hashes the first 72 bytes and errors on longer input
	if len(s) > 72 {
		return errors.New("must be at most 72 bytes")
	}
	if !hasUpperPattern.MatchString(s) {
		return errors.New("must contain an uppercase letter")
	}
	if !hasLowerPattern.MatchString(s) {
		return errors.New("must contain a lowercase letter")
	}
	if !hasDigitPattern.MatchString(s) {
		return errors.New("must contain a digit")
	}
	return nil
}

func stringEquals(expected string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

type registerRequest struct {
	Email           string  `json:"email"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	Phone           *string `json:"phone"`
	Bio             *string `json:"bio"`
	AvatarURL       *string `json:"avatar_url"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Username, validation.Required, validation.Match(usernamePattern)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Password, validation.Required, validation.By(passwordStrength)),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.By(stringEquals(r.Password))),
		validation.Field(&r.Phone, validation.Length(1, 20), validation.Match(phonePattern)),
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.AvatarURL, validation.Length(0, 500)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r refreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

func (r updateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Username, validation.Match(usernamePattern)),
		validation.Field(&r.FirstName, validation.Length(1, 50)),
		validation.Field(&r.LastName, validation.Length(1, 50)),
		validation.Field(&r.Phone, validation.Length(1, 20), validation.Match(phonePattern)),
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.AvatarURL, validation.Length(0, 500)),
	)
}

func (r updateUserRequest) toUpdate() models.UserUpdate {
	return models.UserUpdate{
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Bio:       r.Bio,
		AvatarURL: r.AvatarURL,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.By(passwordStrength)),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.By(stringEquals(r.NewPassword))),
	)
}

// userResponse is the public projection of a user row. The password hash
// is never serialized.
type userResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Phone:       u.Phone,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type userListResponse struct {
	Users []userResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

func newUserListResponse(p *services.UserPage) userListResponse {
	out := userListResponse{
		Users: make([]userResponse, 0, len(p.Users)),
		Total: p.Total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: p.Pages,
	}
	for _, u := range p.Users {
		out.Users = append(out.Users, newUserResponse(u))
	}
	return out
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func newTokenResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    p.ExpiresIn,
	}
}

// writeError maps service sentinels onto HTTP statuses. Internal details
// never reach the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, common.ErrorAccountDisabled):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is disabled"})
	case errors.Is(err, common.ErrorInvalidToken), errors.Is(err, common.ErrorInvalidUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, common.ErrorDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, common.ErrorDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	case errors.Is(err, common.ErrorDuplicateField):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate value"})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writeValidationError renders ozzo field errors as a 422 detail map.
func writeValidationError(c *gin.Context, err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "detail": fields})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed"})
}
