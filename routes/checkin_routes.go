package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherpoint/checkin-go/controllers"
)

func SetupCheckInRoutes(api *gin.RouterGroup, checkInController *controllers.CheckInController) {
	checkIns := api.Group("/check-ins")
	{
		checkIns.POST("", checkInController.Submit)
		checkIns.POST("/scan", checkInController.SubmitScan)
	}
}
