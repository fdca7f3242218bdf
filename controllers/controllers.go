// Package controllers exposes the game operations over HTTP. Handlers
// normalize input, call into the store and translate typed errors into
// status codes; all game logic lives in services/store.
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idoldraft/models"
	"idoldraft/services/broadcast"
	"idoldraft/services/store"
)

type GameController struct {
	Store *store.GameStore
	Hub   *broadcast.Hub
}

// ErrorResponse documents the failure envelope for swagger.
type ErrorResponse struct {
	OK    bool              `json:"ok" example:"false"`
	Error *models.GameError `json:"error"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func respondError(c *gin.Context, gameErr *models.GameError) {
	c.JSON(statusForError(gameErr.Code), gin.H{"ok": false, "error": gameErr})
}

func missingContext(c *gin.Context, message string) {
	respondError(c, models.NewGameError(models.ErrMissingContext, message))
}

// statusForError maps error codes onto HTTP statuses: lookups 404, bad
// input 400, state conflicts 409.
func statusForError(code string) int {
	switch code {
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrInvalidName, models.ErrInvalidCode, models.ErrMissingContext,
		models.ErrInvalidRole, models.ErrInvalidPlayer, models.ErrInvalidIdol:
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

// @Summary Health check
// @Description Returns pong, used by deploy checks
// @Tags meta
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
