package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherpoint/checkin-go/controllers"
)

func SetupReportRoutes(api *gin.RouterGroup, reportController *controllers.ReportController) {
	api.GET("/events/:id/check-ins", reportController.GetEventCheckIns)

	participants := api.Group("/participants")
	{
		participants.GET("/:id/check-ins", reportController.GetParticipantCheckIns)
		participants.GET("/:id/points", reportController.GetParticipantPoints)
	}
}
