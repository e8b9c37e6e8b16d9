package routes

import (
	"github.com/ecovilla/exchange-api/controllers"
	"github.com/gin-gonic/gin"
)

func SetupModerationRoutes(rg *gin.RouterGroup, mc *controllers.ModerationController) {
	rg.GET("/listings/:id/flags", mc.GetListingFlags)
	rg.POST("/listings/:id/flags/clear", mc.ClearListingFlags)
	rg.DELETE("/flags/:id", mc.DismissFlag)
	rg.POST("/listings/archive", mc.AdminArchiveListings)
	rg.POST("/listings/:id/archive-for-cause", mc.ArchiveForCause)
}
