package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/http/middleware"
)

// UserHandlers handles user profile HTTP requests
type UserHandlers struct {
	userRepo  domain.UserRepository
	manageSvc domain.ManageService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userRepo domain.UserRepository, manageSvc domain.ManageService) *UserHandlers {
	return &UserHandlers{
		userRepo:  userRepo,
		manageSvc: manageSvc,
	}
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
}

// Get returns a user profile together with its management grants, the way
// directory pages consume it.
func (h *UserHandlers) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	// Profiles are visible to their owner and to admins only.
	if claims.UserID != uint(id) && claims.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions", "reason": middleware.ReasonForbidden})
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user"})
		return
	}

	grants, err := h.manageSvc.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load grants"})
		return
	}

	manage := gin.H{
		"hospital": []uint{},
		"clinic":   []uint{},
		"pharmacy": []uint{},
	}
	byCategory := map[domain.ManageCategory][]uint{}
	for _, g := range grants {
		byCategory[g.Category] = append(byCategory[g.Category], g.EntityID)
	}
	for cat, ids := range byCategory {
		manage[cat.String()] = ids
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Success",
		"user":    userPayload(user),
		"manage":  manage,
	})
}

// Update edits the caller's own profile; admins may edit anyone.
func (h *UserHandlers) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	if claims.UserID != uint(id) && claims.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions", "reason": middleware.ReasonForbidden})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user"})
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Phone != "" && req.Phone != user.Phone {
		user.Phone = req.Phone
		user.IsVerified = false
	}

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success", "user": userPayload(user)})
}
