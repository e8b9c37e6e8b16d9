package routes

import (
	"github.com/ecovilla/exchange-api/controllers"
	"github.com/gin-gonic/gin"
)

func SetupTransactionRoutes(rg *gin.RouterGroup, tc *controllers.TransactionController) {
	rg.GET("/transactions", tc.GetMyTransactions)
	rg.POST("/transactions/:id/confirm", tc.ConfirmTransaction)
	rg.POST("/transactions/:id/reject", tc.RejectTransaction)
	rg.POST("/transactions/:id/cancel", tc.CancelTransaction)
	rg.POST("/transactions/:id/pickup", tc.PickupTransaction)
	rg.POST("/transactions/:id/return", tc.ReturnTransaction)
	rg.POST("/transactions/:id/complete", tc.CompleteTransaction)
}
