package ws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"scopone-client/game"
	"scopone-client/scoponeerrors"
)

// MessageID discriminates server-to-client messages.
type MessageID string

const (
	PlayersMsg                   MessageID = "Players"
	PlayerAddedMsg               MessageID = "PlayerAdded"
	PlayerLeftOsteriaMsg         MessageID = "PlayerLeftOsteria"
	PlayerIsAlreadyInOsteriaMsg  MessageID = "PlayerIsAlreadyInOsteria"
	GamesMsg                     MessageID = "Games"
	ErrorAddingPlayerToGameMsg   MessageID = "ErrorAddingPlayerToGame"
	ErrorAddingObserverToGameMsg MessageID = "ErrorAddingObserverToGame"
	GameWithSameNamePresentMsg   MessageID = "GameWithSameNamePresent"
	CardsPlayedAndTakenMsg       MessageID = "CardsPlayedAndTaken"
	TeamsFormedMsg               MessageID = "TeamsFormed"
	NewHandReadyMsg              MessageID = "NewHandReady"
	HandViewMsg                  MessageID = "HandView"
)

// Message carries every field a server message can have. Which ones are set
// depends on ID.
type Message struct {
	ResponseTo         string                     `json:"responseTo,omitempty"`
	Receiver           string                     `json:"receiver,omitempty"`
	ID                 MessageID                  `json:"id"`
	TsSent             string                     `json:"tsSent,omitempty"`
	PlayerName         string                     `json:"playerName,omitempty"`
	Players            []game.Player              `json:"players,omitempty"`
	Games              []game.Game                `json:"games,omitempty"`
	Teams              [][]string                 `json:"teams,omitempty"`
	HandPlayerView     *game.PlayerView           `json:"handPlayerView,omitempty"`
	AllHandPlayerViews map[string]game.PlayerView `json:"allHandPlayerViews,omitempty"`
	Error              string                     `json:"error,omitempty"`
	GameName           string                     `json:"gameName,omitempty"`
	CardPlayed         *game.Card                 `json:"cardPlayed,omitempty"`
	CardsTaken         []game.Card                `json:"cardsTaken,omitempty"`
	CardPlayedByPlayer string                     `json:"cardPlayedByPlayer,omitempty"`
	FinalTableTake     *game.FinalTableTake       `json:"finalTableTake,omitempty"`
	MsgVersion         string                     `json:"msgVersion,omitempty"`
}

// SplitFrame parses a physical frame holding one or more newline-delimited
// JSON messages, preserving their order. Blank lines are skipped.
func SplitFrame(frame []byte) ([]Message, error) {
	var msgs []Message
	for _, line := range bytes.Split(frame, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(line, &m); err != nil {
			return msgs, fmt.Errorf("%w: %v", scoponeerrors.ErrMalformedMessage, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// CommandID discriminates client-to-server commands.
type CommandID string

const (
	PlayerEntersOsteriaCmd CommandID = "playerEntersOsteria"
	NewGameCmd             CommandID = "newGame"
	AddPlayerToGameCmd     CommandID = "addPlayerToGame"
	AddObserverToGameCmd   CommandID = "addObserverToGame"
	NewHandCmd             CommandID = "newHand"
	PlayCardCmd            CommandID = "playCard"
	CloseGameCmd           CommandID = "closeGame"
)

// Command is a client-to-server message. TsSent is stamped when it is sent.
type Command struct {
	ID         CommandID   `json:"id"`
	TsSent     time.Time   `json:"tsSent"`
	PlayerName string      `json:"playerName,omitempty"`
	GameName   string      `json:"gameName,omitempty"`
	CardPlayed *game.Card  `json:"cardPlayed,omitempty"`
	CardsTaken []game.Card `json:"cardsTaken"`
}

// EnterOsteria asks the server to admit playerName to the lobby.
func EnterOsteria(playerName string) Command {
	return Command{ID: PlayerEntersOsteriaCmd, PlayerName: playerName}
}

// NewGame creates a game.
func NewGame(gameName string) Command {
	return Command{ID: NewGameCmd, GameName: gameName}
}

// AddPlayerToGame seats playerName in gameName.
func AddPlayerToGame(playerName, gameName string) Command {
	return Command{ID: AddPlayerToGameCmd, PlayerName: playerName, GameName: gameName}
}

// AddObserverToGame lets observerName watch gameName.
func AddObserverToGame(observerName, gameName string) Command {
	return Command{ID: AddObserverToGameCmd, PlayerName: observerName, GameName: gameName}
}

// NewHand starts the next hand of gameName.
func NewHand(gameName string) Command {
	return Command{ID: NewHandCmd, GameName: gameName}
}

// PlayCard plays card for playerName taking cardsTaken from the table.
func PlayCard(gameName, playerName string, card game.Card, cardsTaken []game.Card) Command {
	if cardsTaken == nil {
		cardsTaken = []game.Card{}
	}
	return Command{
		ID:         PlayCardCmd,
		GameName:   gameName,
		PlayerName: playerName,
		CardPlayed: &card,
		CardsTaken: cardsTaken,
	}
}

// CloseGame terminates gameName for everybody.
func CloseGame(gameName string) Command {
	return Command{ID: CloseGameCmd, GameName: gameName}
}
