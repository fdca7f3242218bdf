package controllers

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"idoldraft/models"
	"idoldraft/utils"
)

type createGameRequest struct {
	DisplayName string `json:"display_name"`
}

type joinGameRequest struct {
	DisplayName string `json:"display_name"`
}

type startDraftRequest struct {
	PlayerID string `json:"player_id"`
}

type submitPickRequest struct {
	PlayerID string `json:"player_id"`
	CardID   string `json:"card_id"`
}

// @Summary Creates a new game lobby
// @Description Registers a lobby with the caller as its creator and returns the shareable code
// @Tags game
// @Accept json
// @Produce json
// @Param request body object{display_name=string} true "Creator display name"
// @Success 200 {object} object{ok=bool,data=object{game=models.Game,player=models.Player}}
// @Failure 400 {object} controllers.ErrorResponse
// @Router /game [post]
func (gc *GameController) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DisplayName == "" {
		missingContext(c, "A display name is required to create a lobby.")
		return
	}

	game, player, gameErr := gc.Store.CreateGame(req.DisplayName)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}

	rememberPlayer(c, game.Code, player.ID)
	log.Printf("[GAME] lobby %s created by %s", game.Code, player.Name)
	respondOK(c, gin.H{"game": game, "player": player})
}

// @Summary Joins an existing lobby
// @Description Adds a player to an open lobby by code
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Param request body object{display_name=string} true "Player display name"
// @Success 200 {object} object{ok=bool,data=object{game=models.Game,player=models.Player}}
// @Failure 400 {object} controllers.ErrorResponse
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/join [post]
func (gc *GameController) JoinGame(c *gin.Context) {
	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DisplayName == "" {
		missingContext(c, "A display name is required to join a lobby.")
		return
	}

	game, player, gameErr := gc.Store.JoinGame(c.Param("code"), req.DisplayName)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}

	rememberPlayer(c, game.Code, player.ID)
	log.Printf("[GAME] %s joined lobby %s", player.Name, game.Code)
	respondOK(c, gin.H{"game": game, "player": player})
}

// @Summary Gets the current game state
// @Description Returns a full snapshot of the game with the given code
// @Tags game
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{ok=bool,data=models.Game}
// @Failure 404 {object} controllers.ErrorResponse
// @Router /game/{code} [get]
func (gc *GameController) GetGame(c *gin.Context) {
	game, gameErr := gc.Store.GetGame(c.Param("code"))
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}
	respondOK(c, game)
}

// @Summary Recovers the caller's player id
// @Description Reads the player handle stored in the cookie session when the lobby was created or joined
// @Tags game
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{ok=bool,data=object{player_id=string}}
// @Failure 404 {object} controllers.ErrorResponse
// @Router /game/{code}/me [get]
func (gc *GameController) Me(c *gin.Context) {
	code := utils.NormalizeCode(c.Param("code"))

	session := sessions.Default(c)
	playerID, _ := session.Get(sessionKey(code)).(string)
	if playerID == "" {
		respondError(c, models.NewGameError(models.ErrNotFound,
			"No player identity is stored for this lobby."))
		return
	}
	respondOK(c, gin.H{"player_id": playerID})
}

// @Summary Starts the draft
// @Description Seats the players randomly and opens the snake draft; creator only
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Param request body object{player_id=string} true "Requester player id"
// @Success 200 {object} object{ok=bool,data=models.Game}
// @Failure 400 {object} controllers.ErrorResponse
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/start [post]
func (gc *GameController) StartDraft(c *gin.Context) {
	var req startDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" {
		missingContext(c, "A player id is required to start the draft.")
		return
	}

	game, gameErr := gc.Store.StartDraft(c.Param("code"), req.PlayerID)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}

	log.Printf("[GAME] draft started in lobby %s with %d players", game.Code, len(game.Players))
	respondOK(c, game)
}

// @Summary Submits a draft pick
// @Description Drafts one card for the player whose turn it is
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Param request body object{player_id=string,card_id=string} true "Pick"
// @Success 200 {object} object{ok=bool,data=models.Game}
// @Failure 400 {object} controllers.ErrorResponse
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/pick [post]
func (gc *GameController) SubmitPick(c *gin.Context) {
	var req submitPickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" || req.CardID == "" {
		missingContext(c, "A player id and card id are required to pick.")
		return
	}

	game, gameErr := gc.Store.SubmitPick(c.Param("code"), req.PlayerID, req.CardID)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}
	respondOK(c, game)
}

// @Summary Lists the idol card catalog
// @Description Returns every card a draft can contain
// @Tags catalog
// @Produce json
// @Success 200 {object} object{ok=bool,data=[]models.IdolCard}
// @Router /cards [get]
func (gc *GameController) ListCards(c *gin.Context) {
	respondOK(c, gc.Store.ListCards())
}

func sessionKey(code string) string {
	return "player:" + code
}

// rememberPlayer stores the opaque player handle in the cookie session so a
// page refresh can recover it via GET /game/:code/me.
func rememberPlayer(c *gin.Context, code, playerID string) {
	session := sessions.Default(c)
	session.Set(sessionKey(code), playerID)
	if err := session.Save(); err != nil {
		log.Printf("[GAME] could not persist session for %s: %v", code, err)
	}
}
