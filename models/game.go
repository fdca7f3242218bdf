package models

type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"
	StatusDrafting GameStatus = "drafting"
	StatusScenario GameStatus = "scenario"
	StatusReveal   GameStatus = "reveal"
	StatusComplete GameStatus = "complete"
)

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSubmitted SubmissionStatus = "submitted"
)

type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"` // 0 until the draft assigns seats 1..N
	IsCreator bool   `json:"is_creator"`
	JoinedAt  int64  `json:"joined_at"` // Unix ms
}

type IdolCard struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	ImageURL string `json:"image_url,omitempty"`
}

type ScenarioRole struct {
	ID                  string `json:"id"`
	Label               string `json:"label"`
	Description         string `json:"description,omitempty"`
	AllowDuplicateIdols bool   `json:"allow_duplicate_idols,omitempty"`
}

type Scenario struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Prompt   string         `json:"prompt"`
	Roles    []ScenarioRole `json:"roles"`
	ImageURL string         `json:"image_url,omitempty"`
}

// RoleAssignments maps role id -> player id -> drafted card id.
type RoleAssignments map[string]map[string]string

// Game is the aggregate root, one per game code. All timestamps are Unix ms.
type Game struct {
	ID                   string                      `json:"id"`
	Code                 string                      `json:"code"`
	Status               GameStatus                  `json:"status"`
	CreatorID            string                      `json:"creator_id"`
	Players              []Player                    `json:"players"`
	TurnOrder            []string                    `json:"turn_order"`
	ActivePickIndex      int                         `json:"active_pick_index"`
	Picks                map[string][]string         `json:"picks"`
	AvailableCardIDs     []string                    `json:"available_card_ids"`
	Scenarios            []Scenario                  `json:"scenarios"`
	CurrentScenarioIndex int                         `json:"current_scenario_index"`
	RoleAssignments      RoleAssignments             `json:"role_assignments"`
	SubmissionState      map[string]SubmissionStatus `json:"submission_state"`
	ScenarioRevealedAt   int64                       `json:"scenario_revealed_at,omitempty"`
	ScenarioUpdatedAt    int64                       `json:"scenario_updated_at,omitempty"`
	CreatedAt            int64                       `json:"created_at"`
	LockedAt             int64                       `json:"locked_at,omitempty"`
	CompletedAt          int64                       `json:"completed_at,omitempty"`
}

// ScenarioSnapshot is the per-round view pushed to clients. Status is always
// "scenario" or "reveal".
type ScenarioSnapshot struct {
	Code                 string                      `json:"code"`
	Scenario             *Scenario                   `json:"scenario"`
	CurrentScenarioIndex int                         `json:"current_scenario_index"`
	TotalScenarios       int                         `json:"total_scenarios"`
	RoleAssignments      RoleAssignments             `json:"role_assignments"`
	SubmissionState      map[string]SubmissionStatus `json:"submission_state"`
	Status               GameStatus                  `json:"status"`
	RevealedAt           int64                       `json:"revealed_at,omitempty"`
	UpdatedAt            int64                       `json:"updated_at"`
}

func (p Player) Clone() Player {
	return p
}

func (r ScenarioRole) Clone() ScenarioRole {
	return r
}

func (s *Scenario) Clone() *Scenario {
	if s == nil {
		return nil
	}
	out := *s
	out.Roles = make([]ScenarioRole, len(s.Roles))
	copy(out.Roles, s.Roles)
	return &out
}

// RoleByID returns the role with the given id, or nil.
func (s *Scenario) RoleByID(roleID string) *ScenarioRole {
	if s == nil {
		return nil
	}
	for i := range s.Roles {
		if s.Roles[i].ID == roleID {
			return &s.Roles[i]
		}
	}
	return nil
}

func (a RoleAssignments) Clone() RoleAssignments {
	if a == nil {
		return nil
	}
	out := make(RoleAssignments, len(a))
	for roleID, byPlayer := range a {
		inner := make(map[string]string, len(byPlayer))
		for playerID, cardID := range byPlayer {
			inner[playerID] = cardID
		}
		out[roleID] = inner
	}
	return out
}

// Clone returns a deep copy so callers can never mutate store state through a
// returned reference.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g

	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)

	out.TurnOrder = make([]string, len(g.TurnOrder))
	copy(out.TurnOrder, g.TurnOrder)

	out.AvailableCardIDs = make([]string, len(g.AvailableCardIDs))
	copy(out.AvailableCardIDs, g.AvailableCardIDs)

	out.Picks = make(map[string][]string, len(g.Picks))
	for playerID, cards := range g.Picks {
		picked := make([]string, len(cards))
		copy(picked, cards)
		out.Picks[playerID] = picked
	}

	out.Scenarios = make([]Scenario, len(g.Scenarios))
	for i := range g.Scenarios {
		out.Scenarios[i] = *g.Scenarios[i].Clone()
	}

	out.RoleAssignments = g.RoleAssignments.Clone()

	out.SubmissionState = make(map[string]SubmissionStatus, len(g.SubmissionState))
	for playerID, state := range g.SubmissionState {
		out.SubmissionState[playerID] = state
	}

	return &out
}

// PlayerByID returns the player with the given id, or nil.
func (g *Game) PlayerByID(playerID string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

// ActivePlayerID returns the id of the player whose turn it is, or "" when the
// draft is not running.
func (g *Game) ActivePlayerID() string {
	if g.Status != StatusDrafting {
		return ""
	}
	if g.ActivePickIndex < 0 || g.ActivePickIndex >= len(g.TurnOrder) {
		return ""
	}
	return g.TurnOrder[g.ActivePickIndex]
}

// CurrentScenario returns the active scenario template, or nil.
func (g *Game) CurrentScenario() *Scenario {
	if g.CurrentScenarioIndex < 0 || g.CurrentScenarioIndex >= len(g.Scenarios) {
		return nil
	}
	return &g.Scenarios[g.CurrentScenarioIndex]
}
