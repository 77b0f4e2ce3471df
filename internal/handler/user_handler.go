package handler

import (
	"net/http"
	"time"

	"socialise/backend/internal/auth"
	"socialise/backend/internal/service"
	"socialise/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	FirstName string `json:"first_name" binding:"required" example:"Ada"`
	LastName  string `json:"last_name" binding:"required" example:"Lovelace"`
	Email     string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse carries an access token.
type TokenResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id" example:"1"`
}

// UpdateProfileInput defines the editable profile fields. Omitted fields are
// left unchanged.
type UpdateProfileInput struct {
	BirthDay        *int    `json:"birth_day" binding:"omitempty,min=0,max=31" example:"10"`
	BirthMonth      *int    `json:"birth_month" binding:"omitempty,min=0,max=12" example:"12"`
	Hometown        *string `json:"hometown" binding:"omitempty,max=255" example:"London"`
	Occupation      *string `json:"occupation" binding:"omitempty,max=255" example:"Mathematician"`
	ShowDateOfBirth *bool   `json:"show_date_of_birth"`
	ShowHometown    *bool   `json:"show_hometown"`
	ShowOccupation  *bool   `json:"show_occupation"`
}

// endregion

// UserHandler serves accounts and profiles.
type UserHandler struct {
	users     *service.UserService
	jwtSecret string
	jwtTTL    time.Duration
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, jwtSecret string, jwtTTL time.Duration) *UserHandler {
	return &UserHandler{users: users, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

func (h *UserHandler) issueToken(c *gin.Context, status int, userID uint) {
	token, err := jwt.GenerateToken(userID, h.jwtSecret, h.jwtTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, TokenResponse{Token: token, UserID: userID})
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.issueToken(c, http.StatusCreated, user.ID)
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user with email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issueToken(c, http.StatusOK, user.ID)
}

// GetProfile godoc
// @Summary      Get a user's profile
// @Description  Fields the owner has hidden are only returned to the owner.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  ProfileResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{userId} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildProfileResponse(*user, viewerID))
}

// UpdateProfile godoc
// @Summary      Update your profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int                 true  "User ID"
// @Param        input   body      UpdateProfileInput  true  "Profile fields"
// @Success      200     {object}  ProfileResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users/{userId} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		BirthDay:        input.BirthDay,
		BirthMonth:      input.BirthMonth,
		Hometown:        input.Hometown,
		Occupation:      input.Occupation,
		ShowDateOfBirth: input.ShowDateOfBirth,
		ShowHometown:    input.ShowHometown,
		ShowOccupation:  input.ShowOccupation,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildProfileResponse(*user, userID))
}
