package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherpoint/checkin-go/controllers"
	"github.com/gatherpoint/checkin-go/engine"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, eng *engine.Orchestrator, registry *engine.CodeRegistry) {
	// Initialize controllers
	checkInController := controllers.NewCheckInController(eng)
	codeController := controllers.NewCodeController(registry)
	reportController := controllers.NewReportController(db)
	leaderboardController := controllers.NewLeaderboardController(db)

	api := r.Group("/api")
	{
		SetupCheckInRoutes(api, checkInController)
		SetupCodeRoutes(api, codeController)
		SetupReportRoutes(api, reportController)
		api.GET("/leaderboard", leaderboardController.GetLeaderboard)
	}
}
