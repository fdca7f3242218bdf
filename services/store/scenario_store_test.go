package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idoldraft/models"
	"idoldraft/services/broadcast"
	"idoldraft/services/catalog"
)

type scenarioFixture struct {
	store *GameStore
	code  string
	game  *models.Game
	host  *models.Player
	rival *models.Player
}

// setupScenarioGame drives a two player game through the full draft so the
// first scenario round is active.
func setupScenarioGame(t *testing.T) *scenarioFixture {
	t.Helper()
	s := newTestStore(t)

	game, host, gameErr := s.CreateGame("Host Player")
	require.Nil(t, gameErr)
	_, rival, gameErr := s.JoinGame(game.Code, "Rival Player")
	require.Nil(t, gameErr)
	_, gameErr = s.StartDraft(game.Code, host.ID)
	require.Nil(t, gameErr)

	finished := drainDraft(t, s, game.Code)
	require.Equal(t, models.StatusScenario, finished.Status)

	return &scenarioFixture{store: s, code: game.Code, game: finished, host: host, rival: rival}
}

// forceScenario reorders the shuffled deck so a known template is active.
func forceScenario(t *testing.T, s *GameStore, code, scenarioID string) {
	t.Helper()
	entry, gameErr := s.lookup(code)
	require.Nil(t, gameErr)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	target := -1
	for i := range game.Scenarios {
		if game.Scenarios[i].ID == scenarioID {
			target = i
			break
		}
	}
	require.GreaterOrEqual(t, target, 0, "scenario %s not in deck", scenarioID)

	current := game.CurrentScenarioIndex
	game.Scenarios[current], game.Scenarios[target] = game.Scenarios[target], game.Scenarios[current]
	resetScenarioRoundLocked(game)
}

// fillRoles assigns each of the player's picks to the scenario roles in order.
func fillRoles(t *testing.T, f *scenarioFixture, playerID string) {
	t.Helper()
	game, gameErr := f.store.GetGame(f.code)
	require.Nil(t, gameErr)
	scenario := game.CurrentScenario()
	require.NotNil(t, scenario)

	idols := game.Picks[playerID]
	require.GreaterOrEqual(t, len(idols), len(scenario.Roles))
	for i, role := range scenario.Roles {
		_, gameErr := f.store.AssignScenarioRole(f.code, playerID, role.ID, idols[i])
		require.Nil(t, gameErr)
	}
}

func nonDuplicateRoles(t *testing.T, scenario *models.Scenario) []models.ScenarioRole {
	t.Helper()
	var roles []models.ScenarioRole
	for _, role := range scenario.Roles {
		if !role.AllowDuplicateIdols {
			roles = append(roles, role)
		}
	}
	require.GreaterOrEqual(t, len(roles), 2)
	return roles
}

func TestAssignScenarioRolePreventsIdolReuse(t *testing.T) {
	f := setupScenarioGame(t)

	snapshot, gameErr := f.store.GetScenarioState(f.code)
	require.Nil(t, gameErr)
	require.NotNil(t, snapshot.Scenario)

	roles := nonDuplicateRoles(t, snapshot.Scenario)
	hostIdols := f.game.Picks[f.host.ID]
	require.GreaterOrEqual(t, len(hostIdols), 2)

	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, roles[0].ID, hostIdols[0])
	require.Nil(t, gameErr)

	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, roles[1].ID, hostIdols[0])
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrIdolInUse, gameErr.Code)

	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, roles[1].ID, hostIdols[1])
	require.Nil(t, gameErr)
}

func TestAssignScenarioRoleAllowsDuplicatesWhenRoleAllows(t *testing.T) {
	f := setupScenarioGame(t)
	forceScenario(t, f.store, f.code, "variety-night")

	hostIdols := f.game.Picks[f.host.ID]

	_, gameErr := f.store.AssignScenarioRole(f.code, f.host.ID, "mc", hostIdols[0])
	require.Nil(t, gameErr)

	// wildcard allows duplicates, so reusing the MC idol is fine
	snapshot, gameErr := f.store.AssignScenarioRole(f.code, f.host.ID, "wildcard", hostIdols[0])
	require.Nil(t, gameErr)
	assert.Equal(t, hostIdols[0], snapshot.RoleAssignments["wildcard"][f.host.ID])
}

func TestAssignScenarioRoleValidation(t *testing.T) {
	f := setupScenarioGame(t)

	snapshot, gameErr := f.store.GetScenarioState(f.code)
	require.Nil(t, gameErr)
	role := snapshot.Scenario.Roles[0]

	hostIdols := f.game.Picks[f.host.ID]
	rivalIdols := f.game.Picks[f.rival.ID]

	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, "no-such-role", hostIdols[0])
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrInvalidRole, gameErr.Code)

	_, gameErr = f.store.AssignScenarioRole(f.code, "no-such-player", role.ID, hostIdols[0])
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrInvalidPlayer, gameErr.Code)

	// Only the player's own roster is assignable
	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, role.ID, rivalIdols[0])
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrInvalidIdol, gameErr.Code)
}

func TestAssignScenarioRoleAfterSubmitIsLocked(t *testing.T) {
	f := setupScenarioGame(t)

	fillRoles(t, f, f.host.ID)
	_, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.Nil(t, gameErr)

	hostIdols := f.game.Picks[f.host.ID]
	snapshot, gameErr := f.store.GetScenarioState(f.code)
	require.Nil(t, gameErr)

	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, snapshot.Scenario.Roles[0].ID, hostIdols[0])
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrScenarioLocked, gameErr.Code)
}

func TestSubmitNamesFirstUnfilledRole(t *testing.T) {
	f := setupScenarioGame(t)

	snapshot, gameErr := f.store.GetScenarioState(f.code)
	require.Nil(t, gameErr)
	firstRole := snapshot.Scenario.Roles[0]

	_, gameErr = f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrScenarioPartial, gameErr.Code)
	assert.Contains(t, gameErr.Message, firstRole.Label)
}

func TestRevealOnceEveryPlayerSubmits(t *testing.T) {
	f := setupScenarioGame(t)

	fillRoles(t, f, f.host.ID)
	fillRoles(t, f, f.rival.ID)

	first, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.Nil(t, gameErr)
	assert.Equal(t, models.StatusScenario, first.Status)
	assert.Zero(t, first.RevealedAt)

	second, gameErr := f.store.SubmitScenarioSelections(f.code, f.rival.ID)
	require.Nil(t, gameErr)
	assert.Equal(t, models.StatusReveal, second.Status)
	assert.NotZero(t, second.RevealedAt)

	// Assignments are frozen once revealed
	hostIdols := f.game.Picks[f.host.ID]
	_, gameErr = f.store.AssignScenarioRole(f.code, f.host.ID, second.Scenario.Roles[0].ID, hostIdols[0])
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrScenarioRevealed, gameErr.Code)

	// Resubmission after the reveal is an idempotent success
	again, gameErr := f.store.SubmitScenarioSelections(f.code, f.rival.ID)
	require.Nil(t, gameErr)
	assert.Equal(t, models.StatusReveal, again.Status)
	assert.Equal(t, second.RevealedAt, again.RevealedAt)
}

func TestResubmissionBeforeRevealIsIdempotent(t *testing.T) {
	f := setupScenarioGame(t)

	fillRoles(t, f, f.host.ID)

	first, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.Nil(t, gameErr)
	second, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.Nil(t, gameErr)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.SubmissionState, second.SubmissionState)
}

func TestAdvanceScenarioMovesToNextRound(t *testing.T) {
	f := setupScenarioGame(t)

	fillRoles(t, f, f.host.ID)
	fillRoles(t, f, f.rival.ID)
	_, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.Nil(t, gameErr)
	revealed, gameErr := f.store.SubmitScenarioSelections(f.code, f.rival.ID)
	require.Nil(t, gameErr)
	require.Equal(t, models.StatusReveal, revealed.Status)

	next, gameErr := f.store.AdvanceScenario(f.code, true)
	require.Nil(t, gameErr)
	assert.Equal(t, models.StatusScenario, next.Status)
	assert.Equal(t, revealed.CurrentScenarioIndex+1, next.CurrentScenarioIndex)
	assert.Zero(t, next.RevealedAt)
	for _, state := range next.SubmissionState {
		assert.Equal(t, models.SubmissionPending, state)
	}
	for roleID := range next.RoleAssignments {
		assert.Empty(t, next.RoleAssignments[roleID])
	}
}

func TestAdvanceScenarioReplayKeepsIndex(t *testing.T) {
	f := setupScenarioGame(t)

	fillRoles(t, f, f.host.ID)
	fillRoles(t, f, f.rival.ID)
	_, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
	require.Nil(t, gameErr)
	revealed, gameErr := f.store.SubmitScenarioSelections(f.code, f.rival.ID)
	require.Nil(t, gameErr)

	replayed, gameErr := f.store.AdvanceScenario(f.code, false)
	require.Nil(t, gameErr)
	assert.Equal(t, models.StatusScenario, replayed.Status)
	assert.Equal(t, revealed.CurrentScenarioIndex, replayed.CurrentScenarioIndex)
	for _, state := range replayed.SubmissionState {
		assert.Equal(t, models.SubmissionPending, state)
	}
}

func TestAdvanceScenarioRequiresReveal(t *testing.T) {
	f := setupScenarioGame(t)

	_, gameErr := f.store.AdvanceScenario(f.code, true)
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrInvalidState, gameErr.Code)
}

func TestAdvancingThroughEveryScenarioCompletesTheGame(t *testing.T) {
	f := setupScenarioGame(t)

	total := len(f.game.Scenarios)
	require.Greater(t, total, 1)

	for round := 0; round < total; round++ {
		fillRoles(t, f, f.host.ID)
		fillRoles(t, f, f.rival.ID)
		_, gameErr := f.store.SubmitScenarioSelections(f.code, f.host.ID)
		require.Nil(t, gameErr)
		_, gameErr = f.store.SubmitScenarioSelections(f.code, f.rival.ID)
		require.Nil(t, gameErr)

		_, gameErr = f.store.AdvanceScenario(f.code, true)
		require.Nil(t, gameErr)
	}

	game, gameErr := f.store.GetGame(f.code)
	require.Nil(t, gameErr)
	assert.Equal(t, models.StatusComplete, game.Status)
	assert.NotZero(t, game.CompletedAt)

	_, gameErr = f.store.AdvanceScenario(f.code, true)
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrScenarioComplete, gameErr.Code)

	_, gameErr = f.store.GetScenarioState(f.code)
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrScenarioComplete, gameErr.Code)
}

func TestCompletionBroadcastKeepsRevealSnapshot(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)
	hub := broadcast.NewHub()
	s := New(cat, hub)

	game, host, gameErr := s.CreateGame("Host Player")
	require.Nil(t, gameErr)
	_, rival, gameErr := s.JoinGame(game.Code, "Rival Player")
	require.Nil(t, gameErr)
	_, gameErr = s.StartDraft(game.Code, host.ID)
	require.Nil(t, gameErr)

	finished := drainDraft(t, s, game.Code)
	f := &scenarioFixture{store: s, code: game.Code, game: finished, host: host, rival: rival}

	var last *broadcast.Update
	unsubscribe := hub.Subscribe(game.Code, func(u *broadcast.Update) { last = u })
	defer unsubscribe()

	for round := 0; round < len(finished.Scenarios); round++ {
		fillRoles(t, f, host.ID)
		fillRoles(t, f, rival.ID)
		_, gameErr = s.SubmitScenarioSelections(f.code, host.ID)
		require.Nil(t, gameErr)
		_, gameErr = s.SubmitScenarioSelections(f.code, rival.ID)
		require.Nil(t, gameErr)
		_, gameErr = s.AdvanceScenario(f.code, true)
		require.Nil(t, gameErr)
	}

	// The final broadcast carries the completed game with its last reveal view
	require.NotNil(t, last)
	require.NotNil(t, last.Game)
	assert.Equal(t, models.StatusComplete, last.Game.Status)
	require.NotNil(t, last.Scenario)
	assert.Equal(t, models.StatusReveal, last.Scenario.Status)
	assert.NotZero(t, last.Scenario.RevealedAt)
}

func TestGetScenarioStateOutsideScenarioPhase(t *testing.T) {
	s := newTestStore(t)

	game, host, gameErr := s.CreateGame("Host Player")
	require.Nil(t, gameErr)

	_, gameErr = s.GetScenarioState(game.Code)
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrInvalidState, gameErr.Code)

	_, _, gameErr = s.JoinGame(game.Code, "Rival Player")
	require.Nil(t, gameErr)
	_, gameErr = s.StartDraft(game.Code, host.ID)
	require.Nil(t, gameErr)

	_, gameErr = s.GetScenarioState(game.Code)
	require.NotNil(t, gameErr)
	assert.Equal(t, models.ErrInvalidState, gameErr.Code)
}
