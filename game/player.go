package game

// PlayerStatus is the situation of a player as reported by the server.
type PlayerStatus string

const (
	PlayerPlaying             PlayerStatus = "playing"
	PlayerLookingAtHandResult PlayerStatus = "lookingAtHandResult"
	PlayerNotPlaying          PlayerStatus = "notPlayingAnyGame"
	PlayerLeftTheGame         PlayerStatus = "leftOsteriaMaybeMomentarely"
	PlayerObservingGames      PlayerStatus = "observingGames"
)

// Player is a connected session in the Osteria. The name is its identity.
type Player struct {
	Name   string       `json:"name"`
	Status PlayerStatus `json:"status"`
}

// FindPlayer returns the player with the given name.
func FindPlayer(players []Player, name string) (Player, bool) {
	for _, p := range players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}
