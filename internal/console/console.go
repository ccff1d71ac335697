// internal/console/console.go
//
// Line-oriented presentation loop for the dice game.
// Responsibilities:
//   - Turn committed input lines into session events (submit, restart,
//     scoreboard toggle, quit).
//   - Render a text frame after every event: prompt, hint, player table,
//     die strip and the scoreboard overlay.
//
// Commands (case-insensitive):
//   /scores or tab   toggle the scoreboard overlay (tab is a name during name entry)
//   /quit            leave the game
//   "" or again      restart once a game is finished

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dicegame/internal/game"
	"github.com/robalobadob/dicegame/internal/store"
)

const title = "Dice Game"

// Session is the part of game.Session the loop drives.
type Session interface {
	Submit(ctx context.Context, text string) (game.Outcome, error)
	Restart() error
	State() game.State
	Prompt() string
	Hint() game.Hint
	Players() []game.Player
	Current() int
	MaxNumber() int
	Bounds() (int, int)
}

// Scores is the read side of the scoreboard used by the overlay.
type Scores interface {
	Entries() []store.Entry
}

// UI owns the terminal side of one game process.
type UI struct {
	in     *bufio.Scanner
	out    io.Writer
	sess   Session
	scores Scores

	showScores bool
	notice     string
}

// New wires a loop reading lines from in and drawing frames to out.
func New(in io.Reader, out io.Writer, sess Session, scores Scores) *UI {
	return &UI{in: bufio.NewScanner(in), out: out, sess: sess, scores: scores}
}

// Run draws the first frame and then handles one line per event until
// /quit, end of input, or ctx is cancelled. Cancellation is honoured while
// waiting for input; the reader goroutine stays parked in Scan until the
// reader yields or is closed.
func (u *UI) Run(ctx context.Context) error {
	if err := u.render(); err != nil {
		return err
	}

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for u.in.Scan() {
			select {
			case lines <- u.in.Text():
			case <-readCtx.Done():
				return
			}
		}
		scanErr <- u.in.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if err := ctx.Err(); err != nil {
				return err
			}
			if !ok {
				return <-scanErr
			}
			if quit := u.Handle(ctx, line); quit {
				return nil
			}
			if err := u.render(); err != nil {
				return err
			}
		}
	}
}

// Handle applies one committed line. It reports true when the player asked
// to quit.
func (u *UI) Handle(ctx context.Context, line string) bool {
	cmd := strings.TrimSpace(line)
	u.notice = ""

	switch strings.ToLower(cmd) {
	case "/quit":
		return true
	case "/scores":
		u.showScores = !u.showScores
		return false
	case "tab":
		// a bare "tab" is a valid player name
		if u.sess.State() != game.StateNameInput {
			u.showScores = !u.showScores
			return false
		}
	}

	if u.sess.State() == game.StateFinished {
		if cmd == "" || strings.EqualFold(cmd, "again") {
			if err := u.sess.Restart(); err != nil {
				u.notice = err.Error()
			}
			return false
		}
		u.notice = "press Enter to play again or /quit to leave"
		return false
	}

	if _, err := u.sess.Submit(ctx, line); err != nil {
		log.Debug().Err(err).Str("state", u.sess.State().String()).Msg("input rejected")
		u.notice = describe(err)
	}
	return false
}

// ShowingScores reports whether the overlay is open.
func (u *UI) ShowingScores() bool { return u.showScores }

// describe strips sentinel prefixes so the player sees only the reason.
func describe(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{game.ErrInvalidInput, game.ErrWrongState} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return msg
}

// render writes one full frame.
func (u *UI) render() error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== %s ===\n", title)
	fmt.Fprintln(&b, u.sess.Prompt())
	if h := u.sess.Hint(); h != game.HintNone {
		fmt.Fprintf(&b, "Hint: %s!\n", h)
	}
	if u.notice != "" {
		fmt.Fprintf(&b, "! %s\n", u.notice)
	}

	state := u.sess.State()
	if state == game.StatePlaying || state == game.StateFinished {
		writePlayers(&b, u.sess.Players(), u.sess.Current(), state == game.StatePlaying)
	}
	if state == game.StatePlaying {
		lo, hi := u.sess.Bounds()
		writeDice(&b, u.sess.MaxNumber(), lo, hi)
	}
	if state == game.StateFinished {
		fmt.Fprintln(&b, "[ Play again: press Enter ]")
	}
	if u.showScores && u.scores != nil {
		writeScores(&b, u.scores.Entries())
	}
	b.WriteString("> ")

	_, err := io.WriteString(u.out, b.String())
	return err
}

func writePlayers(b *strings.Builder, players []game.Player, current int, playing bool) {
	for i, p := range players {
		marker := "  "
		if playing && i == current {
			marker = "> "
		}
		info := p.Name
		if p.BestScore > 0 {
			info += fmt.Sprintf(" (best: %d)", p.BestScore)
		}
		fmt.Fprintf(b, "%s%s: %d tries\n", marker, info, p.Tries)
	}
}

// writeDice draws one cell per face; faces outside [lo, hi] are dimmed.
func writeDice(b *strings.Builder, maxNumber, lo, hi int) {
	cells := make([]string, 0, maxNumber)
	for v := 1; v <= maxNumber; v++ {
		if v < lo || v > hi {
			cells = append(cells, " · ")
			continue
		}
		cells = append(cells, fmt.Sprintf("[%d]", v))
	}
	fmt.Fprintln(b, strings.Join(cells, " "))
}

func writeScores(b *strings.Builder, entries []store.Entry) {
	fmt.Fprintln(b, "--- Scoreboard ---")
	if len(entries) == 0 {
		fmt.Fprintln(b, "no games recorded yet")
	}
	for _, e := range entries {
		fmt.Fprintf(b, "%s - best: %d (games: %d)\n", e.Name, e.BestScore, e.GamesPlayed)
	}
	fmt.Fprintln(b, "(type /scores to close)")
}
