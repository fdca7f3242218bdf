package controllers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	game_constants "idoldraft/constants/game"
	"idoldraft/services/broadcast"
	"idoldraft/utils"
)

// Per-subscriber buffer. Frames are full snapshots, so a consumer that misses
// one converges on the next frame it receives.
const eventBufferSize = 64

// @Summary Streams live game updates
// @Description Server-sent events: an initial game:update, one game:update per committed mutation, and a ping every 25 seconds
// @Tags game
// @Produce text/event-stream
// @Param code path string true "Game code"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} controllers.ErrorResponse
// @Router /game/{code}/events [get]
func (gc *GameController) StreamEvents(c *gin.Context) {
	code := utils.NormalizeCode(c.Param("code"))

	initial, gameErr := gc.Store.BuildUpdate(code)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}

	updates := make(chan *broadcast.Update, eventBufferSize)
	unsubscribe := gc.Hub.Subscribe(code, func(update *broadcast.Update) {
		select {
		case updates <- update:
		default:
			log.Printf("[SSE] dropping frame for lagging subscriber on %s", code)
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-store, no-transform")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("game:update", initial)
	c.Writer.Flush()

	keepAlive := time.NewTicker(game_constants.KeepAliveInterval)
	defer keepAlive.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case update := <-updates:
			c.SSEvent("game:update", update)
			c.Writer.Flush()
		case tick := <-keepAlive.C:
			c.SSEvent("ping", tick.UnixMilli())
			c.Writer.Flush()
		}
	}
}
