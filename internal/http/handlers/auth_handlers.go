package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc  domain.AuthService
	otpSvc   domain.OTPService
	userRepo domain.UserRepository
	audit    domain.AuditLogger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, userRepo domain.UserRepository, audit domain.AuditLogger) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		otpSvc:   otpSvc,
		userRepo: userRepo,
		audit:    audit,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Gender    string `json:"gender"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// OTPSendRequest represents a verification code request
type OTPSendRequest struct {
	Phone  string `json:"phone" binding:"required"`
	UserID uint   `json:"user_id" binding:"required"`
}

// OTPVerifyRequest represents OTP verification request
type OTPVerifyRequest struct {
	Phone  string `json:"phone" binding:"required"`
	Code   string `json:"code" binding:"required"`
	UserID uint   `json:"user_id" binding:"required"`
}

func userPayload(user *domain.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"first_name":  user.FirstName,
		"last_name":   user.LastName,
		"gender":      user.Gender,
		"email":       user.Email,
		"role":        user.Role,
		"is_verified": user.IsVerified,
		"created_at":  user.CreatedAt,
		"updated_at":  user.UpdatedAt,
	}
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.RoleUser,
	}

	created, err := h.authSvc.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully, please verify your account",
		"user":    userPayload(created),
	})
}

// Login handles user login. The canonical contract returns both the token
// pair and the user object in one response.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		case errors.Is(err, domain.ErrUserNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"message": "Account not verified"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Success",
		"token":         result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
		"user":          userPayload(result.User),
	})
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired refresh token"})
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Session expired, please log in again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Token refresh failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Success",
		"token":      result.AccessToken,
		"token_type": "Bearer",
		"expires_in": result.ExpiresIn,
	})
}

// Logout handles logout: the session dies, so every credential referencing it
// is logically destroyed.
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.CtxSessionID)
	if sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success", "user": userPayload(user)})
}

// SendOTP handles verification code generation and delivery
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req OTPSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to find user"})
		return
	}

	if user.Phone != req.Phone {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Phone number does not match user"})
		return
	}

	if _, err := h.otpSvc.Generate(c.Request.Context(), req.Phone, req.UserID); err != nil {
		if errors.Is(err, domain.ErrOTPResendLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Please wait before requesting a new code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyOTP handles verification code confirmation and sets the account's
// verified flag.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ok, err := h.otpSvc.Verify(c.Request.Context(), req.Phone, req.Code, req.UserID)
	if err != nil || !ok {
		switch {
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Verification code expired"})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many attempts, request a new code"})
		case errors.Is(err, domain.ErrOTPInvalid), !ok:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid verification code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Verification failed"})
		}
		return
	}

	if err := h.userRepo.MarkVerified(c.Request.Context(), req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Verification failed"})
		return
	}

	h.audit.LogEvent(c.Request.Context(), domain.NewAuditEvent(domain.UserVerifiedEvent, req.UserID))

	c.JSON(http.StatusOK, gin.H{"message": "Account verified"})
}
