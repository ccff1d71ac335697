// internal/game/engine.go
//
// Turn sequencer for a single hot-seat guessing session.
// Responsibilities:
//   - Walk setup → [difficulty] → name entry → playing → finished.
//   - Validate every submission and reject bad input without advancing.
//   - Draw a fresh target for each player's turn and track the feasible range.
//   - Determine winners and report completed games to the scoreboard.
//
// Notes:
//   - currentPlayer == len(players) while Finished (round complete).
//   - Each round carries a uuid so the scoreboard records it exactly once.
package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/robalobadob/dicegame/internal/dice"
)

const (
	// DefaultMaxPlayers bounds the player count when Options leaves it unset.
	DefaultMaxPlayers = 8
	// MaxNameLen is the longest accepted player name, in characters.
	MaxNameLen = 20
)

// Options configures a Session.
type Options struct {
	MaxPlayers       int  // upper bound on player count (DefaultMaxPlayers if <= 0)
	DifficultySelect bool // ask for 1 or 2 dice after the player count
	Dice             int  // dice count used when DifficultySelect is off
}

// Session owns the players and turn state of one table.
type Session struct {
	opts   Options
	roller dice.Roller
	board  Scoreboard

	state     State
	players   []Player
	current   int
	target    int
	maxNumber int
	lower     int
	upper     int
	hint      Hint
	message   string
	result    Result
	roundID   string
}

// NewSession constructs a session in StateSetup.
// A nil roller falls back to dice.CryptoRoller.
func NewSession(opts Options, roller dice.Roller, board Scoreboard) *Session {
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = DefaultMaxPlayers
	}
	if roller == nil {
		roller = dice.CryptoRoller{}
	}
	s := &Session{
		opts:      opts,
		roller:    roller,
		board:     board,
		state:     StateSetup,
		maxNumber: dice.MaxNumber(opts.Dice),
	}
	s.message = "Enter the number of players:"
	return s
}

// Submit handles one committed line of text for the current state.
// Numeric states parse the text and reject anything that is not an integer.
func (s *Session) Submit(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	switch s.state {
	case StateSetup:
		n, err := parseInt(text, "player count")
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{}, s.SubmitPlayerCount(n)
	case StateDifficultySelect:
		d, err := parseInt(text, "dice count")
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{}, s.SubmitDifficulty(d)
	case StateNameInput:
		return Outcome{}, s.SubmitName(text)
	case StatePlaying:
		v, err := parseInt(text, "guess")
		if err != nil {
			return Outcome{}, err
		}
		return s.SubmitGuess(ctx, v)
	case StateFinished:
		return Outcome{Finished: true}, fmt.Errorf("%w: game is finished, restart to play again", ErrWrongState)
	}
	return Outcome{}, fmt.Errorf("%w: %s", ErrWrongState, s.state)
}

// SubmitPlayerCount creates n players with default names.
func (s *Session) SubmitPlayerCount(n int) error {
	if s.state != StateSetup {
		return fmt.Errorf("%w: player count in %s", ErrWrongState, s.state)
	}
	if n < 1 || n > s.opts.MaxPlayers {
		return fmt.Errorf("%w: player count must be between 1 and %d", ErrInvalidInput, s.opts.MaxPlayers)
	}
	s.players = make([]Player, n)
	for i := range s.players {
		s.players[i] = Player{Name: "Player " + strconv.Itoa(i+1)}
	}
	s.current = 0

	if s.opts.DifficultySelect {
		s.state = StateDifficultySelect
		s.message = fmt.Sprintf("How many dice? (1 = 1-%d, 2 = 1-%d):", dice.MaxNumber(1), dice.MaxNumber(2))
		return nil
	}
	s.state = StateNameInput
	s.message = s.namePrompt()
	return nil
}

// SubmitDifficulty picks one or two dice, which sets the guess range.
func (s *Session) SubmitDifficulty(d int) error {
	if s.state != StateDifficultySelect {
		return fmt.Errorf("%w: difficulty in %s", ErrWrongState, s.state)
	}
	if d != 1 && d != 2 {
		return fmt.Errorf("%w: choose 1 or 2 dice", ErrInvalidInput)
	}
	s.maxNumber = dice.MaxNumber(d)
	s.state = StateNameInput
	s.message = s.namePrompt()
	return nil
}

// SubmitName names the current player and copies any recorded best score.
// Once every player is named the first turn begins.
func (s *Session) SubmitName(text string) error {
	if s.state != StateNameInput {
		return fmt.Errorf("%w: name in %s", ErrWrongState, s.state)
	}
	name := norm.NFC.String(strings.TrimSpace(text))
	switch {
	case name == "":
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	case utf8.RuneCountInString(name) > MaxNameLen:
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, MaxNameLen)
	case strings.Contains(name, ","):
		return fmt.Errorf("%w: name must not contain a comma", ErrInvalidInput)
	case strings.ContainsFunc(name, unicode.IsControl):
		return fmt.Errorf("%w: name must not contain control characters", ErrInvalidInput)
	}

	p := &s.players[s.current]
	p.Name = name
	if s.board != nil {
		if best, ok := s.board.Best(name); ok {
			p.BestScore = best
		}
	}
	s.current++
	if s.current < len(s.players) {
		s.message = s.namePrompt()
		return nil
	}

	s.current = 0
	s.roundID = uuid.NewString()
	s.state = StatePlaying
	s.beginTurn()
	log.Info().Str("round", s.roundID).Int("players", len(s.players)).Int("max", s.maxNumber).Msg("game started")
	return nil
}

// SubmitGuess applies a guess for the current player.
// Out-of-range values are rejected and do not count as a try.
func (s *Session) SubmitGuess(ctx context.Context, value int) (Outcome, error) {
	if s.state != StatePlaying {
		return Outcome{}, fmt.Errorf("%w: guess in %s", ErrWrongState, s.state)
	}
	if value < 1 || value > s.maxNumber {
		return Outcome{}, fmt.Errorf("%w: guess must be between 1 and %d", ErrInvalidInput, s.maxNumber)
	}

	p := &s.players[s.current]
	p.Tries++
	log.Debug().Str("round", s.roundID).Int("player", s.current).Int("guess", value).Int("tries", p.Tries).Msg("guess")

	if value != s.target {
		if value < s.target {
			s.hint = HintHigher
			s.lower = max(s.lower, value+1)
		} else {
			s.hint = HintLower
			s.upper = min(s.upper, value-1)
		}
		return Outcome{Hint: s.hint}, nil
	}

	s.current++
	if s.current < len(s.players) {
		s.beginTurn()
		return Outcome{Correct: true}, nil
	}
	s.finish(ctx)
	return Outcome{Correct: true, Finished: true}, nil
}

// Restart starts a new game with the same players.
// Best scores carry over; the scoreboard is untouched until the next completion.
func (s *Session) Restart() error {
	if s.state != StateFinished {
		return fmt.Errorf("%w: restart in %s", ErrWrongState, s.state)
	}
	for i := range s.players {
		s.players[i].Tries = 0
	}
	s.current = 0
	s.result = Result{}
	s.roundID = uuid.NewString()
	s.state = StatePlaying
	s.beginTurn()
	log.Info().Str("round", s.roundID).Msg("game restarted")
	return nil
}

// beginTurn draws a target for the current player and resets the range.
func (s *Session) beginTurn() {
	s.target = s.roller.Roll(s.maxNumber)
	s.hint = HintNone
	s.lower, s.upper = 1, s.maxNumber
	s.message = fmt.Sprintf("%s's turn. Guess the number (1-%d):", s.players[s.current].Name, s.maxNumber)
}

// finish settles the game and reports it to the scoreboard (best effort).
func (s *Session) finish(ctx context.Context) {
	s.state = StateFinished
	s.hint = HintNone
	s.result = Winners(s.players)
	if s.result.Tie {
		s.message = fmt.Sprintf("Tie! Multiple players with %d tries!", s.result.Tries)
	} else {
		s.message = fmt.Sprintf("%s won with %d tries!", s.players[s.result.Winners[0]].Name, s.result.Tries)
	}
	log.Info().Str("round", s.roundID).Ints("winners", s.result.Winners).Int("tries", s.result.Tries).Msg("game finished")

	if s.board == nil {
		return
	}
	if !s.board.RecordCompletion(s.roundID, s.Players()) {
		log.Warn().Str("round", s.roundID).Msg("round already recorded")
		return
	}
	for i := range s.players {
		if best, ok := s.board.Best(s.players[i].Name); ok {
			s.players[i].BestScore = best
		}
	}
	if err := s.board.Save(ctx); err != nil {
		log.Warn().Err(err).Str("round", s.roundID).Msg("save scoreboard")
	}
}

// Winners returns every player holding the minimum tries.
// An empty slice yields the zero Result.
func Winners(players []Player) Result {
	if len(players) == 0 {
		return Result{}
	}
	low := players[0].Tries
	for _, p := range players[1:] {
		if p.Tries < low {
			low = p.Tries
		}
	}
	res := Result{Tries: low}
	for i, p := range players {
		if p.Tries == low {
			res.Winners = append(res.Winners, i)
		}
	}
	res.Tie = len(res.Winners) > 1
	return res
}

// namePrompt asks for the current player's name.
func (s *Session) namePrompt() string {
	return fmt.Sprintf("Enter a name for %s:", s.players[s.current].Name)
}

// parseInt is the fallible replacement for unchecked numeric input.
func parseInt(text, what string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidInput, what)
	}
	return n, nil
}

// ------------------------------ accessors ----------------------------------

func (s *Session) State() State { return s.state }
func (s *Session) Current() int { return s.current }
func (s *Session) Target() int { return s.target }
func (s *Session) MaxNumber() int { return s.maxNumber }
func (s *Session) Hint() Hint { return s.hint }
func (s *Session) Prompt() string { return s.message }
func (s *Session) RoundID() string { return s.roundID }
func (s *Session) Bounds() (int, int) { return s.lower, s.upper }

// Result returns the winner determination of the last finished game.
func (s *Session) Result() Result { return s.result }

// Players returns a copy of the seats in turn order.
func (s *Session) Players() []Player {
	return append([]Player(nil), s.players...)
}
