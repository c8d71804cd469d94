package engine

import "sync"

// Session is the identity the engine derives its views for: who I am, which
// game I track and whether I only watch it. It is owned by one Engine.
type Session struct {
	mu         sync.RWMutex
	playerName string
	gameName   string
	observing  bool
}

// PlayerName is the name I entered the Osteria with.
func (s *Session) PlayerName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerName
}

// GameName is the game I am playing or observing, "" if none.
func (s *Session) GameName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameName
}

// Observing is true when the tracked game is watched rather than played.
func (s *Session) Observing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.observing
}

func (s *Session) setPlayer(name string) {
	s.mu.Lock()
	s.playerName = name
	s.mu.Unlock()
}

func (s *Session) setGame(name string, observing bool) {
	s.mu.Lock()
	s.gameName = name
	s.observing = observing
	s.mu.Unlock()
}

func (s *Session) join(player, game string, observing bool) {
	s.mu.Lock()
	s.playerName = player
	s.gameName = game
	s.observing = observing
	s.mu.Unlock()
}

// clearGame forgets name if it is still the tracked game.
func (s *Session) clearGame(name string) {
	s.mu.Lock()
	if s.gameName == name {
		s.gameName = ""
		s.observing = false
	}
	s.mu.Unlock()
}
