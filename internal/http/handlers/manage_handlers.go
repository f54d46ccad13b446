package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/meddirsvc/domain"
)

// ManageHandlers handles grant administration HTTP requests
type ManageHandlers struct {
	manageSvc domain.ManageService
}

// NewManageHandlers creates new manage handlers
func NewManageHandlers(manageSvc domain.ManageService) *ManageHandlers {
	return &ManageHandlers{manageSvc: manageSvc}
}

// CreateGrantRequest represents a batch grant creation
type CreateGrantRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	Category  string `json:"category" binding:"required"`
	EntityIDs []uint `json:"entity_ids" binding:"required,min=1"`
}

func grantPayload(g *domain.ManageGrant) gin.H {
	return gin.H{
		"id":         g.ID,
		"user_id":    g.UserID,
		"category":   g.Category,
		"entity_id":  g.EntityID,
		"created_at": g.CreatedAt,
	}
}

// Create handles grant creation
func (h *ManageHandlers) Create(c *gin.Context) {
	var req CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category, err := domain.ParseManageCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
		return
	}

	grants, err := h.manageSvc.Grant(c.Request.Context(), req.UserID, category, req.EntityIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, domain.ErrFacilityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Facility not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create grants"})
		}
		return
	}

	payload := make([]gin.H, 0, len(grants))
	for _, g := range grants {
		payload = append(payload, grantPayload(g))
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Success", "grants": payload})
}

// ListByUser handles grant listing for one user
func (h *ManageHandlers) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user_id"})
		return
	}

	grants, err := h.manageSvc.ListByUser(c.Request.Context(), uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list grants"})
		return
	}

	payload := make([]gin.H, 0, len(grants))
	for _, g := range grants {
		payload = append(payload, grantPayload(g))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success", "grants": payload})
}

// Delete handles grant revocation
func (h *ManageHandlers) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	if err := h.manageSvc.Revoke(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrGrantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Grant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to revoke grant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}
