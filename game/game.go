package game

// State is the lifecycle state of a Game:
// created → teamsForming → open ⇄ suspended → closed.
type State string

const (
	GameCreated   State = "created"
	TeamsForming  State = "teamsForming"
	GameOpen      State = "open"
	GameSuspended State = "suspended"
	GameClosed    State = "closed"
)

// HandState is the state of one deal-and-play round.
type HandState string

const (
	HandActive HandState = "active"
	HandClosed HandState = "closed"
)

// PlayersPerGame is the number of seats in a Scopone game (2 teams of 2).
const PlayersPerGame = 4

// Team has exactly two seats. A seat is nil until a player joins.
// The server does not tag these fields, hence the capitalised JSON keys.
type Team struct {
	Players        [2]*Player `json:"Players"`
	TakenCards     []Card     `json:"TakenCards"`
	ScopeDiScopone []Card     `json:"ScopeDiScopone"`
}

// SameSeats reports whether both teams have the same players in the same
// seats with the same status.
func SameSeats(a, b [2]Team) bool {
	for t := 0; t < 2; t++ {
		for s := 0; s < 2; s++ {
			pa, pb := a[t].Players[s], b[t].Players[s]
			if (pa == nil) != (pb == nil) {
				return false
			}
			if pa != nil && *pa != *pb {
				return false
			}
		}
	}
	return true
}

// Hand is one round of a Game as listed in the games snapshot.
type Hand struct {
	State         HandState `json:"state"`
	FirstPlayer   *Player   `json:"FirstPlayer,omitempty"`
	CurrentPlayer *Player   `json:"CurrentPlayer,omitempty"`
}

// Game is a match as seen in the server's games snapshot. The client never
// mutates it: every snapshot replaces the previous one.
type Game struct {
	Name      string            `json:"name"`
	Teams     [2]Team           `json:"teams"`
	Players   map[string]Player `json:"players"`
	Observers map[string]Player `json:"observers"`
	Hands     []Hand            `json:"hands"`
	Score     map[string]int    `json:"score,omitempty"`
	State     State             `json:"state"`
	ClosedBy  string            `json:"closedBy"`
}

// PlayerCount is the number of seated players.
func (g Game) PlayerCount() int {
	return len(g.Players)
}

// HasPlayer reports whether name is seated in the game.
func (g Game) HasPlayer(name string) bool {
	_, ok := g.Players[name]
	return ok
}

// HasObserver reports whether name is watching the game.
func (g Game) HasObserver(name string) bool {
	_, ok := g.Observers[name]
	return ok
}

// Involves reports whether name is a player or an observer of the game.
func (g Game) Involves(name string) bool {
	return g.HasPlayer(name) || g.HasObserver(name)
}

// PlayingCount counts seated players whose status is playing, i.e. the ones
// that have not temporarily left.
func (g Game) PlayingCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Status == PlayerPlaying {
			n++
		}
	}
	return n
}

// LastHand returns the most recent hand, if any.
func (g Game) LastHand() (Hand, bool) {
	if len(g.Hands) == 0 {
		return Hand{}, false
	}
	return g.Hands[len(g.Hands)-1], true
}

// Closed reports whether the game reached its terminal state.
func (g Game) Closed() bool {
	return g.State == GameClosed
}

// FindGame returns the game with the given name.
func FindGame(games []Game, name string) (Game, bool) {
	for _, g := range games {
		if g.Name == name {
			return g, true
		}
	}
	return Game{}, false
}
