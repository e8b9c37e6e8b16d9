package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ecovilla/exchange-api/cache"
	"github.com/ecovilla/exchange-api/services"
	"github.com/gin-gonic/gin"
)

type ListingController struct {
	Listings *services.ListingService
	Cache    *cache.ListingCache
}

func NewListingController(listings *services.ListingService, listingCache *cache.ListingCache) *ListingController {
	return &ListingController{Listings: listings, Cache: listingCache}
}

type ListingRequest struct {
	Title                 string   `json:"title" binding:"required"`
	Description           string   `json:"description"`
	CategoryID            string   `json:"categoryId" binding:"required"`
	PricingType           string   `json:"pricingType" binding:"required,oneof=free fixed_price pay_what_you_want"`
	Price                 *float64 `json:"price"`
	Condition             *string  `json:"condition"`
	AvailableQuantity     int      `json:"availableQuantity"`
	VisibilityScope       string   `json:"visibilityScope" binding:"required,oneof=community neighborhood"`
	NeighborhoodIDs       []string `json:"neighborhoodIds"`
	LocationID            *string  `json:"locationId"`
	CustomLocationName    *string  `json:"customLocationName"`
	CustomLocationLat     *float64 `json:"customLocationLat"`
	CustomLocationLng     *float64 `json:"customLocationLng"`
	CustomLocationAddress *string  `json:"customLocationAddress"`
	PhotoURLs             []string `json:"photoUrls"`
	Publish               bool     `json:"publish"`
}

func (r *ListingRequest) toInput() services.ListingInput {
	return services.ListingInput{
		Title:                 r.Title,
		Description:           r.Description,
		CategoryID:            r.CategoryID,
		PricingType:           r.PricingType,
		Price:                 r.Price,
		Condition:             r.Condition,
		AvailableQuantity:     r.AvailableQuantity,
		VisibilityScope:       r.VisibilityScope,
		NeighborhoodIDs:       r.NeighborhoodIDs,
		LocationID:            r.LocationID,
		CustomLocationName:    r.CustomLocationName,
		CustomLocationLat:     r.CustomLocationLat,
		CustomLocationLng:     r.CustomLocationLng,
		CustomLocationAddress: r.CustomLocationAddress,
		PhotoURLs:             r.PhotoURLs,
		Publish:               r.Publish,
	}
}

// CreateListing godoc
// @Summary Create a listing
// @Tags listings
// @Accept json
// @Produce json
// @Param listing body ListingRequest true "Listing fields"
// @Success 201 {object} models.Listing
// @Router /listings [post]
func (lc *ListingController) CreateListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := lc.Listings.Create(c.Request.Context(), actorFrom(c), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// GetListings godoc
// @Summary Browse published listings
// @Tags listings
// @Produce json
// @Param categoryId query string false "Category filter"
// @Success 200 {object} map[string]interface{}
// @Router /listings [get]
func (lc *ListingController) GetListings(c *gin.Context) {
	listings, err := lc.Listings.Browse(c.Request.Context(), actorFrom(c), c.Query("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// GetListing godoc
// @Summary Get a single listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Router /listings/{id} [get]
func (lc *ListingController) GetListing(c *gin.Context) {
	actor := actorFrom(c)
	listingID := c.Param("id")

	if payload, ok := lc.Cache.Get(c.Request.Context(), actor.TenantID, listingID); ok {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	listing, err := lc.Listings.Get(c.Request.Context(), actor, listingID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Only publicly visible listings are cacheable.
	if listing.DisplayState() == "published" {
		if payload, err := json.Marshal(listing); err == nil {
			lc.Cache.Set(c.Request.Context(), actor.TenantID, listingID, payload)
		}
	}
	c.JSON(http.StatusOK, listing)
}

// UpdateListing godoc
// @Summary Edit a listing
// @Tags listings
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param listing body ListingRequest true "Listing fields"
// @Success 200 {object} models.Listing
// @Router /listings/{id} [put]
func (lc *ListingController) UpdateListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	listing, err := lc.Listings.Update(c.Request.Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	lc.Cache.Invalidate(c.Request.Context(), actor.TenantID, listing.ID)
	c.JSON(http.StatusOK, listing)
}

// PauseListing godoc
// @Summary Toggle listing availability
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/pause [post]
func (lc *ListingController) PauseListing(c *gin.Context) {
	actor := actorFrom(c)
	available, err := lc.Listings.Pause(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	lc.Cache.Invalidate(c.Request.Context(), actor.TenantID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"is_available": available})
}

// PublishListing godoc
// @Summary Publish a draft listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Router /listings/{id}/publish [post]
func (lc *ListingController) PublishListing(c *gin.Context) {
	actor := actorFrom(c)
	listing, err := lc.Listings.Publish(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	lc.Cache.Invalidate(c.Request.Context(), actor.TenantID, listing.ID)
	c.JSON(http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary Delete a listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id} [delete]
func (lc *ListingController) DeleteListing(c *gin.Context) {
	actor := actorFrom(c)
	if err := lc.Listings.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	lc.Cache.Invalidate(c.Request.Context(), actor.TenantID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ArchiveListing godoc
// @Summary Archive own listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/archive [post]
func (lc *ListingController) ArchiveListing(c *gin.Context) {
	actor := actorFrom(c)
	if err := lc.Listings.Archive(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	lc.Cache.Invalidate(c.Request.Context(), actor.TenantID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"archived": true})
}

// UnarchiveListing godoc
// @Summary Restore an archived listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/unarchive [post]
func (lc *ListingController) UnarchiveListing(c *gin.Context) {
	actor := actorFrom(c)
	listing, warning, err := lc.Listings.Unarchive(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	lc.Cache.Invalidate(c.Request.Context(), actor.TenantID, listing.ID)

	resp := gin.H{"listing": listing}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// GetArchivedListings godoc
// @Summary List own archived listings
// @Tags listings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /listings/archived [get]
func (lc *ListingController) GetArchivedListings(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	listings, counts, err := lc.Listings.ArchivedListings(c.Request.Context(), actorFrom(c), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "completed_counts": counts})
}

// GetListingHistory godoc
// @Summary Completed transactions of a listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/history [get]
func (lc *ListingController) GetListingHistory(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	transactions, err := lc.Listings.History(c.Request.Context(), actorFrom(c), c.Param("id"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
