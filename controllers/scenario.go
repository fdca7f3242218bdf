package controllers

import (
	"github.com/gin-gonic/gin"
)

type assignRoleRequest struct {
	PlayerID string `json:"player_id"`
	RoleID   string `json:"role_id"`
	IdolID   string `json:"idol_id"`
}

type submitSelectionsRequest struct {
	PlayerID string `json:"player_id"`
}

type advanceScenarioRequest struct {
	Advance bool `json:"advance"`
}

// @Summary Gets the scenario round state
// @Description Returns the active scenario, assignments and submission state
// @Tags scenario
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{ok=bool,data=models.ScenarioSnapshot}
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/scenario [get]
func (gc *GameController) GetScenarioState(c *gin.Context) {
	snapshot, gameErr := gc.Store.GetScenarioState(c.Param("code"))
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}
	respondOK(c, snapshot)
}

// @Summary Assigns an idol to a scenario role
// @Description Sets one of the player's drafted idols on a role of the active scenario
// @Tags scenario
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Param request body object{player_id=string,role_id=string,idol_id=string} true "Assignment"
// @Success 200 {object} object{ok=bool,data=models.ScenarioSnapshot}
// @Failure 400 {object} controllers.ErrorResponse
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/scenario/assign [post]
func (gc *GameController) AssignScenarioRole(c *gin.Context) {
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" || req.RoleID == "" || req.IdolID == "" {
		missingContext(c, "Player, role and idol ids are required for an assignment.")
		return
	}

	snapshot, gameErr := gc.Store.AssignScenarioRole(c.Param("code"), req.PlayerID, req.RoleID, req.IdolID)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}
	respondOK(c, snapshot)
}

// @Summary Submits scenario selections
// @Description Locks in the player's assignments; the last submission reveals the round for everyone
// @Tags scenario
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Param request body object{player_id=string} true "Submitting player"
// @Success 200 {object} object{ok=bool,data=models.ScenarioSnapshot}
// @Failure 400 {object} controllers.ErrorResponse
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/scenario/submit [post]
func (gc *GameController) SubmitScenarioSelections(c *gin.Context) {
	var req submitSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" {
		missingContext(c, "A player id is required to submit selections.")
		return
	}

	snapshot, gameErr := gc.Store.SubmitScenarioSelections(c.Param("code"), req.PlayerID)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}
	respondOK(c, snapshot)
}

// @Summary Advances or replays a scenario round
// @Description From reveal, advance=true moves to the next scenario; advance=false replays the current one
// @Tags scenario
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Param request body object{advance=bool} true "Advance flag"
// @Success 200 {object} object{ok=bool,data=models.ScenarioSnapshot}
// @Failure 404 {object} controllers.ErrorResponse
// @Failure 409 {object} controllers.ErrorResponse
// @Router /game/{code}/scenario/advance [post]
func (gc *GameController) AdvanceScenario(c *gin.Context) {
	var req advanceScenarioRequest
	// An empty body means replay the current scenario
	_ = c.ShouldBindJSON(&req)

	snapshot, gameErr := gc.Store.AdvanceScenario(c.Param("code"), req.Advance)
	if gameErr != nil {
		respondError(c, gameErr)
		return
	}
	respondOK(c, snapshot)
}
