package controllers

import (
	"net/http"

	"github.com/ecovilla/exchange-api/cache"
	"github.com/ecovilla/exchange-api/services"
	"github.com/gin-gonic/gin"
)

type ModerationController struct {
	Moderation *services.ModerationService
	Cache      *cache.ListingCache
}

func NewModerationController(moderation *services.ModerationService, listingCache *cache.ListingCache) *ModerationController {
	return &ModerationController{Moderation: moderation, Cache: listingCache}
}

type FlagRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ClearFlagsRequest struct {
	Note string `json:"note"`
}

type AdminArchiveRequest struct {
	ListingIDs []string `json:"listingIds" binding:"required,min=1"`
	Reason     string   `json:"reason"`
}

type ArchiveForCauseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FlagListing godoc
// @Summary Flag a listing for moderation
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param flag body FlagRequest true "Flag reason"
// @Success 201 {object} map[string]interface{}
// @Router /listings/{id}/flag [post]
func (mc *ModerationController) FlagListing(c *gin.Context) {
	var req FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	count, err := mc.Moderation.Flag(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	mc.Cache.Invalidate(c.Request.Context(), actor.TenantID, c.Param("id"))
	c.JSON(http.StatusCreated, gin.H{"flag_count": count})
}

// GetListingFlags godoc
// @Summary List flags on a listing (admin)
// @Tags moderation
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/listings/{id}/flags [get]
func (mc *ModerationController) GetListingFlags(c *gin.Context) {
	flags, err := mc.Moderation.ListFlags(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flags": flags})
}

// DismissFlag godoc
// @Summary Dismiss one flag (admin)
// @Tags moderation
// @Produce json
// @Param id path string true "Flag ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/flags/{id} [delete]
func (mc *ModerationController) DismissFlag(c *gin.Context) {
	if err := mc.Moderation.Dismiss(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dismissed": true})
}

// ClearListingFlags godoc
// @Summary Clear all flags on a listing (admin)
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/listings/{id}/flags/clear [post]
func (mc *ModerationController) ClearListingFlags(c *gin.Context) {
	var req ClearFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	if err := mc.Moderation.ClearAll(c.Request.Context(), actor, c.Param("id"), req.Note); err != nil {
		respondError(c, err)
		return
	}
	mc.Cache.Invalidate(c.Request.Context(), actor.TenantID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// AdminArchiveListings godoc
// @Summary Archive listings administratively, cancelling open transactions
// @Tags moderation
// @Accept json
// @Produce json
// @Param archive body AdminArchiveRequest true "Listings and reason"
// @Success 200 {object} map[string]interface{}
// @Router /admin/listings/archive [post]
func (mc *ModerationController) AdminArchiveListings(c *gin.Context) {
	var req AdminArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	if err := mc.Moderation.Listings.AdminArchive(c.Request.Context(), actor, req.ListingIDs, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	for _, id := range req.ListingIDs {
		mc.Cache.Invalidate(c.Request.Context(), actor.TenantID, id)
	}
	c.JSON(http.StatusOK, gin.H{"archived": len(req.ListingIDs)})
}

// ArchiveForCause godoc
// @Summary Archive one listing for cause (admin, reason mandatory)
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param archive body ArchiveForCauseRequest true "Reason"
// @Success 200 {object} map[string]interface{}
// @Router /admin/listings/{id}/archive-for-cause [post]
func (mc *ModerationController) ArchiveForCause(c *gin.Context) {
	var req ArchiveForCauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	if err := mc.Moderation.ArchiveForCause(c.Request.Context(), actor, c.Param("id"), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	mc.Cache.Invalidate(c.Request.Context(), actor.TenantID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"archived": true})
}
