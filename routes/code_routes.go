package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherpoint/checkin-go/controllers"
)

func SetupCodeRoutes(api *gin.RouterGroup, codeController *controllers.CodeController) {
	venues := api.Group("/venues")
	{
		venues.POST("/:id/daily-code", codeController.IssueDailyCode)
		venues.DELETE("/:id/daily-code", codeController.RevokeDailyCode)
	}
}
