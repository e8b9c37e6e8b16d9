package routes

import (
	"github.com/ecovilla/exchange-api/controllers"
	"github.com/gin-gonic/gin"
)

func SetupListingRoutes(rg *gin.RouterGroup, lc *controllers.ListingController, mc *controllers.ModerationController, tc *controllers.TransactionController) {
	rg.POST("/listings", lc.CreateListing)
	rg.GET("/listings", lc.GetListings)
	rg.GET("/listings/archived", lc.GetArchivedListings)
	rg.GET("/listings/:id", lc.GetListing)
	rg.PUT("/listings/:id", lc.UpdateListing)
	rg.DELETE("/listings/:id", lc.DeleteListing)
	rg.POST("/listings/:id/pause", lc.PauseListing)
	rg.POST("/listings/:id/publish", lc.PublishListing)
	rg.POST("/listings/:id/archive", lc.ArchiveListing)
	rg.POST("/listings/:id/unarchive", lc.UnarchiveListing)
	rg.GET("/listings/:id/history", lc.GetListingHistory)

	rg.POST("/listings/:id/flag", mc.FlagListing)
	rg.POST("/listings/:id/requests", tc.CreateRequest)
}
