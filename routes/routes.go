package routes

import (
	"idoldraft/controllers"
	"idoldraft/services/broadcast"
	"idoldraft/services/store"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, gameStore *store.GameStore, hub *broadcast.Hub) {
	gc := &controllers.GameController{Store: gameStore, Hub: hub}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/cards", gc.ListCards)

	api.POST("/game", gc.CreateGame)

	game := api.Group("/game/:code")
	{
		game.GET("", gc.GetGame)

		game.GET("/me", gc.Me)

		game.POST("/join", gc.JoinGame)

		game.POST("/start", gc.StartDraft)

		game.POST("/pick", gc.SubmitPick)

		game.GET("/scenario", gc.GetScenarioState)

		game.POST("/scenario/assign", gc.AssignScenarioRole)

		game.POST("/scenario/submit", gc.SubmitScenarioSelections)

		game.POST("/scenario/advance", gc.AdvanceScenario)

		game.GET("/events", gc.StreamEvents)
	}
}
