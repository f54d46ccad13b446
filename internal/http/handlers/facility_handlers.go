package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/meddirsvc/domain"
)

// FacilityHandlers handles directory HTTP requests for one facility category.
// The router instantiates one set of routes per category; the handlers are
// shared.
type FacilityHandlers struct {
	facilitySvc domain.FacilityService
	placesSvc   domain.PlacesService
}

// NewFacilityHandlers creates new facility handlers
func NewFacilityHandlers(facilitySvc domain.FacilityService, placesSvc domain.PlacesService) *FacilityHandlers {
	return &FacilityHandlers{
		facilitySvc: facilitySvc,
		placesSvc:   placesSvc,
	}
}

// FacilityRequest represents a create/update payload
type FacilityRequest struct {
	Title         string  `json:"title" binding:"required"`
	County        string  `json:"county"`
	District      string  `json:"district"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	Excerpt       string  `json:"excerpt"`
	Keywords      string  `json:"keywords"`
	Partner       bool    `json:"partner"`
	GooglePlaceID string  `json:"google_place_id"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
}

func facilityPayload(f *domain.Facility) gin.H {
	return gin.H{
		"id":              f.ID,
		"category":        f.Category,
		"title":           f.Title,
		"county":          f.County,
		"district":        f.District,
		"address":         f.Address,
		"phone":           f.Phone,
		"excerpt":         f.Excerpt,
		"keywords":        f.Keywords,
		"partner":         f.Partner,
		"google_place_id": f.GooglePlaceID,
		"lat":             f.Lat,
		"lng":             f.Lng,
		"created_at":      f.CreatedAt,
		"updated_at":      f.UpdatedAt,
	}
}

// List returns a filtered page of one category.
func (h *FacilityHandlers) List(category domain.ManageCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := domain.FacilityFilter{
			Category: category,
			County:   c.Query("county"),
			District: c.Query("district"),
			Keyword:  c.Query("keyword"),
		}
		if p := c.Query("partner"); p != "" {
			partner := p == "true"
			filter.Partner = &partner
		}
		filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

		facilities, total, err := h.facilitySvc.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list facilities"})
			return
		}

		payload := make([]gin.H, 0, len(facilities))
		for _, f := range facilities {
			payload = append(payload, facilityPayload(f))
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Success",
			"total":   total,
			"page":    filter.Page,
			"items":   payload,
		})
	}
}

// Get returns one facility, optionally enriched with places data.
func (h *FacilityHandlers) Get(category domain.ManageCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
			return
		}

		facility, err := h.facilitySvc.Get(c.Request.Context(), category, uint(id))
		if err != nil {
			if errors.Is(err, domain.ErrFacilityNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Facility not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load facility"})
			return
		}

		payload := facilityPayload(facility)

		// Enrichment is best-effort: the provider's fallback keeps the page
		// rendering when the lookup fails.
		if c.Query("enrich") == "true" {
			query := facility.Title
			if facility.Address != "" {
				query = facility.Title + " " + facility.Address
			}
			info, _ := h.placesSvc.Lookup(c.Request.Context(), query, facility.Address == "")
			payload["google_info"] = info
		}

		c.JSON(http.StatusOK, gin.H{"message": "Success", "facility": payload})
	}
}

// Create adds a facility to the directory.
func (h *FacilityHandlers) Create(category domain.ManageCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FacilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		facility := h.fromRequest(category, &req)
		created, err := h.facilitySvc.Create(c.Request.Context(), facility)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create facility"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Created " + created.Title, "facility": facilityPayload(created)})
	}
}

// Update replaces a facility's editable fields.
func (h *FacilityHandlers) Update(category domain.ManageCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
			return
		}

		var req FacilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		facility := h.fromRequest(category, &req)
		facility.ID = uint(id)

		updated, err := h.facilitySvc.Update(c.Request.Context(), facility)
		if err != nil {
			if errors.Is(err, domain.ErrFacilityNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Facility not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update facility"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Updated " + updated.Title, "facility": facilityPayload(updated)})
	}
}

// Delete soft-deletes a facility and revokes its grants.
func (h *FacilityHandlers) Delete(category domain.ManageCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
			return
		}

		if err := h.facilitySvc.Delete(c.Request.Context(), category, uint(id)); err != nil {
			if errors.Is(err, domain.ErrFacilityNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Facility not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete facility"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
	}
}

// GoogleInfos serves raw places enrichment for directory pages.
func (h *FacilityHandlers) GoogleInfos(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing query"})
		return
	}
	byTitle := c.Query("byTitle") == "true"

	info, err := h.placesSvc.Lookup(c.Request.Context(), query, byTitle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success", "info": info})
}

func (h *FacilityHandlers) fromRequest(category domain.ManageCategory, req *FacilityRequest) *domain.Facility {
	return &domain.Facility{
		Category:      category,
		Title:         req.Title,
		County:        req.County,
		District:      req.District,
		Address:       req.Address,
		Phone:         req.Phone,
		Excerpt:       req.Excerpt,
		Keywords:      req.Keywords,
		Partner:       req.Partner,
		GooglePlaceID: req.GooglePlaceID,
		Lat:           req.Lat,
		Lng:           req.Lng,
	}
}
