package game

import "sort"

// ScoreCard groups the cards a team took to make scoring easy to display.
type ScoreCard struct {
	Settebello bool              `json:"settebello"`
	Denari     []Card            `json:"denari"`
	Primiera   map[string][]Card `json:"primiera"`
	Carte      []Card            `json:"carte"`
	Scope      []Card            `json:"scope"`
	Napoli     []Card            `json:"napoli"`
}

// CardPlay is one entry of the hand history.
type CardPlay struct {
	Player       string            `json:"player"`
	Table        []Card            `json:"table"`
	CardPlayed   Card              `json:"cardPlayed"`
	CardsTaken   []Card            `json:"cardsTaken"`
	PlayersDecks map[string][]Card `json:"playersDecks"`
}

// HandHistory is the sequence of plays of a hand plus the initial decks.
type HandHistory struct {
	CardPlaySequence []CardPlay       `json:"cardPlaySequence"`
	PlayerDecks      map[string][]Card `json:"playerDecks"`
}

// PlayerView is the per-player projection of a hand, the primary render
// model. It is received wholesale from the server on every update.
// "Our" and "their" are relative to the player the view belongs to.
type PlayerView struct {
	ID                    string      `json:"id"`
	GameName              string      `json:"gameName"`
	PlayerCards           []Card      `json:"playerCards"`
	Table                 []Card      `json:"table"`
	OurScope              []Card      `json:"ourScope"`
	TheirScope            []Card      `json:"theirScope"`
	OurScorecard          ScoreCard   `json:"ourScorecard"`
	TheirScorecard        ScoreCard   `json:"theirScorecard"`
	Status                HandState   `json:"status"`
	FirstPlayerName       string      `json:"firstPlayerName"`
	CurrentPlayerName     string      `json:"currentPlayerName"`
	OurCurrentGameScore   int         `json:"ourCurrentGameScore"`
	TheirCurrentGameScore int         `json:"theirCurrentGameScore"`
	OurFinalScore         int         `json:"ourFinalScore"`
	TheirFinalScore       int         `json:"theirFinalScore"`
	History               HandHistory `json:"history"`
}

// Closed reports whether the hand this view belongs to is over.
func (v PlayerView) Closed() bool {
	return v.Status == HandClosed
}

// Key identifies the hand a view belongs to across games.
func (v PlayerView) Key() string {
	return v.GameName + "/" + v.ID
}

// TurnHolderView picks, among the views of all seated players, the one that
// belongs to whoever holds the turn. Observers render that single view.
// When the turn holder cannot be resolved the view of the alphabetically first
// player is returned so the choice stays deterministic.
func TurnHolderView(views map[string]PlayerView) (PlayerView, bool) {
	if len(views) == 0 {
		return PlayerView{}, false
	}
	names := make([]string, 0, len(views))
	for n := range views {
		names = append(names, n)
	}
	sort.Strings(names)

	first := views[names[0]]
	if v, ok := views[first.CurrentPlayerName]; ok {
		return v, true
	}
	return first, true
}

// FinalTableTake describes the cards left on the table at the end of a hand
// and the team that takes them. The server sends these keys untagged.
type FinalTableTake struct {
	Cards           []Card    `json:"Cards"`
	TeamTakingTable []*Player `json:"TeamTakingTable"`
}

// Empty reports whether there is no final sweep to show.
func (f FinalTableTake) Empty() bool {
	return len(f.Cards) == 0 && len(f.TeamTakingTable) == 0
}
