// internal/game/types.go
//
// Core type definitions for the guessing game.
// Defines:
//   - State: closed set of session phases.
//   - Hint: directional feedback after a wrong guess.
//   - Player, Outcome, Result: values handed to the presentation layer.
//   - Scoreboard: what the session needs from score persistence.

package game

import (
	"context"
	"errors"
)

// State is the phase a Session is in.
type State int

const (
	StateSetup State = iota
	StateDifficultySelect
	StateNameInput
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateDifficultySelect:
		return "difficulty_select"
	case StateNameInput:
		return "name_input"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Hint tells the active player which way to move after a miss.
type Hint int

const (
	HintNone Hint = iota
	HintHigher
	HintLower
)

func (h Hint) String() string {
	switch h {
	case HintHigher:
		return "try higher"
	case HintLower:
		return "try lower"
	}
	return ""
}

var (
	// ErrInvalidInput is returned for input the player should re-enter.
	ErrInvalidInput = errors.New("invalid input")
	// ErrWrongState is returned when an operation does not apply to the current phase.
	ErrWrongState = errors.New("operation not allowed in current state")
)

// Player is one seat in the session.
type Player struct {
	Name      string // set once during name entry
	Tries     int    // guesses made this game
	BestScore int    // lowest tries on record; 0 = no record
}

// Outcome describes the effect of a submitted guess.
type Outcome struct {
	Correct  bool // guess matched the target
	Hint     Hint // set on a miss
	Finished bool // every player has completed a turn
}

// Result is the winner determination for a finished game.
type Result struct {
	Winners []int // indices of players sharing the minimum tries
	Tries   int   // the minimum tries
	Tie     bool  // more than one winner
}

// Scoreboard is the persistence the session reports completed games to.
type Scoreboard interface {
	// Best returns the recorded best score for name.
	Best(name string) (int, bool)
	// RecordCompletion applies one completed game; it reports false if
	// roundID was already recorded.
	RecordCompletion(roundID string, players []Player) bool
	// Save persists the full table.
	Save(ctx context.Context) error
}
