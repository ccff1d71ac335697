package game_test

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/dicegame/internal/dice"
	"github.com/robalobadob/dicegame/internal/game"
	"github.com/robalobadob/dicegame/internal/scoreboard"
	"github.com/robalobadob/dicegame/internal/store"
)

type fixture struct {
	sess  *game.Session
	board *scoreboard.Board
	st    *store.Memory
}

func newFixture(t *testing.T, opts game.Options, targets ...int) fixture {
	t.Helper()
	st := store.NewMemoryStore()
	b := scoreboard.New(st)
	require.NoError(t, b.Load(context.Background()))
	var roller dice.Roller = dice.CryptoRoller{}
	if len(targets) > 0 {
		roller = dice.Fixed(targets...)
	}
	return fixture{sess: game.NewSession(opts, roller, b), board: b, st: st}
}

func submit(t *testing.T, s *game.Session, lines ...string) {
	t.Helper()
	for _, l := range lines {
		_, err := s.Submit(context.Background(), l)
		require.NoError(t, err, "submit %q", l)
	}
}

func TestAllNamedStartsPlaying(t *testing.T) {
	for n := 1; n <= game.DefaultMaxPlayers; n++ {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			f := newFixture(t, game.Options{})
			submit(t, f.sess, strconv.Itoa(n))
			require.Equal(t, game.StateNameInput, f.sess.State())
			for i := 0; i < n; i++ {
				submit(t, f.sess, "P"+strconv.Itoa(i))
			}
			assert.Equal(t, game.StatePlaying, f.sess.State())
			assert.Equal(t, 0, f.sess.Current())
			assert.GreaterOrEqual(t, f.sess.Target(), 1)
			assert.LessOrEqual(t, f.sess.Target(), f.sess.MaxNumber())
			assert.NotEmpty(t, f.sess.RoundID())
		})
	}
}

func TestPlayerCountRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "2x", "0", "-3", "9", "1.5"} {
		f := newFixture(t, game.Options{})
		_, err := f.sess.Submit(context.Background(), in)
		assert.ErrorIs(t, err, game.ErrInvalidInput, "input %q", in)
		assert.Equal(t, game.StateSetup, f.sess.State())
	}
}

func TestPlayerCountHonoursConfiguredBound(t *testing.T) {
	f := newFixture(t, game.Options{MaxPlayers: 2})
	assert.ErrorIs(t, f.sess.SubmitPlayerCount(3), game.ErrInvalidInput)
	require.NoError(t, f.sess.SubmitPlayerCount(2))
	assert.Len(t, f.sess.Players(), 2)
	assert.Equal(t, "Player 1", f.sess.Players()[0].Name)
	assert.Equal(t, "Enter a name for Player 1:", f.sess.Prompt())
}

func TestDifficultySelection(t *testing.T) {
	f := newFixture(t, game.Options{DifficultySelect: true}, 11)
	submit(t, f.sess, "1")
	require.Equal(t, game.StateDifficultySelect, f.sess.State())

	for _, in := range []string{"3", "0", "two", ""} {
		_, err := f.sess.Submit(context.Background(), in)
		assert.ErrorIs(t, err, game.ErrInvalidInput, "input %q", in)
		assert.Equal(t, game.StateDifficultySelect, f.sess.State())
	}

	submit(t, f.sess, "2")
	assert.Equal(t, game.StateNameInput, f.sess.State())
	assert.Equal(t, 12, f.sess.MaxNumber())

	submit(t, f.sess, "Ana")
	assert.Equal(t, 11, f.sess.Target())
	lo, hi := f.sess.Bounds()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 12, hi)
}

func TestDiceOptionSetsRangeWithoutSelection(t *testing.T) {
	f := newFixture(t, game.Options{Dice: 2})
	assert.Equal(t, 12, f.sess.MaxNumber())
	submit(t, f.sess, "1")
	assert.Equal(t, game.StateNameInput, f.sess.State())
}

func TestNameValidation(t *testing.T) {
	f := newFixture(t, game.Options{})
	submit(t, f.sess, "1")
	for _, in := range []string{"", "   ", strings.Repeat("a", game.MaxNameLen+1), "Ana,Bia", "Ana\nBia", "Ana\tBia", "Ana\x07", "Ana\u0085Bia"} {
		err := f.sess.SubmitName(in)
		assert.ErrorIs(t, err, game.ErrInvalidInput, "input %q", in)
		assert.Equal(t, game.StateNameInput, f.sess.State())
	}
	require.NoError(t, f.sess.SubmitName("  "+strings.Repeat("é", game.MaxNameLen)+" "))
	assert.Equal(t, strings.Repeat("é", game.MaxNameLen), f.sess.Players()[0].Name)
}

func TestControlCharacterNameCannotCorruptScoreFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scoreboard.txt")
	board := scoreboard.New(store.NewFileStore(path))
	require.NoError(t, board.Load(ctx))
	s := game.NewSession(game.Options{}, dice.Fixed(1), board)

	submit(t, s, "1")
	assert.ErrorIs(t, s.SubmitName("Ana\nBia"), game.ErrInvalidInput)
	submit(t, s, "Ana", "1")
	require.Equal(t, game.StateFinished, s.State())

	reloaded := scoreboard.New(store.NewFileStore(path))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, board.Entries(), reloaded.Entries())
	assert.Equal(t, []store.Entry{{Name: "Ana", BestScore: 1, GamesPlayed: 1}}, reloaded.Entries())
}

func TestNameNormalisedToNFC(t *testing.T) {
	f := newFixture(t, game.Options{})
	submit(t, f.sess, "1", "Jose\u0301")
	assert.Equal(t, "Jos\u00e9", f.sess.Players()[0].Name)
}

func TestKnownNameCopiesBestScore(t *testing.T) {
	f := newFixture(t, game.Options{}, 4)
	f.board.RecordCompletion("earlier", []game.Player{{Name: "Ana", Tries: 2}})
	submit(t, f.sess, "2", "Ana", "Bia")
	ps := f.sess.Players()
	assert.Equal(t, 2, ps[0].BestScore)
	assert.Equal(t, 0, ps[1].BestScore)
}

func TestTriesCountOnlyInRangeGuesses(t *testing.T) {
	f := newFixture(t, game.Options{}, 4)
	submit(t, f.sess, "1", "Ana")
	ctx := context.Background()

	for _, v := range []int{0, 7, -1, 100} {
		_, err := f.sess.SubmitGuess(ctx, v)
		assert.ErrorIs(t, err, game.ErrInvalidInput)
	}
	_, err := f.sess.Submit(ctx, "four")
	assert.ErrorIs(t, err, game.ErrInvalidInput)
	assert.Equal(t, 0, f.sess.Players()[0].Tries)

	for i, v := range []int{1, 2, 3} {
		_, err := f.sess.SubmitGuess(ctx, v)
		require.NoError(t, err)
		assert.Equal(t, i+1, f.sess.Players()[0].Tries)
	}
}

func TestHintsAndBoundsNarrow(t *testing.T) {
	f := newFixture(t, game.Options{}, 4)
	submit(t, f.sess, "1", "Ana")
	ctx := context.Background()

	out, err := f.sess.SubmitGuess(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, game.HintHigher, out.Hint)
	assert.Equal(t, "try higher", f.sess.Hint().String())
	lo, hi := f.sess.Bounds()
	assert.Equal(t, [2]int{3, 6}, [2]int{lo, hi})

	out, err = f.sess.SubmitGuess(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, game.HintLower, out.Hint)
	assert.Equal(t, "try lower", f.sess.Hint().String())
	lo, hi = f.sess.Bounds()
	assert.Equal(t, [2]int{3, 5}, [2]int{lo, hi})

	// A guess outside the narrowed range still counts but does not widen it.
	_, err = f.sess.SubmitGuess(ctx, 1)
	require.NoError(t, err)
	lo, hi = f.sess.Bounds()
	assert.Equal(t, [2]int{3, 5}, [2]int{lo, hi})
}

func TestWinners(t *testing.T) {
	tests := []struct {
		name  string
		tries []int
		want  game.Result
	}{
		{"tie", []int{3, 5, 3}, game.Result{Winners: []int{0, 2}, Tries: 3, Tie: true}},
		{"single", []int{2, 5, 7}, game.Result{Winners: []int{0}, Tries: 2}},
		{"last", []int{4, 4, 1}, game.Result{Winners: []int{2}, Tries: 1}},
		{"solo", []int{6}, game.Result{Winners: []int{0}, Tries: 6}},
		{"empty", nil, game.Result{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ps []game.Player
			for _, n := range tt.tries {
				ps = append(ps, game.Player{Tries: n})
			}
			assert.Equal(t, tt.want, game.Winners(ps))
		})
	}
}

func TestSingleAnaGame(t *testing.T) {
	f := newFixture(t, game.Options{DifficultySelect: true}, 4)
	submit(t, f.sess, "1", "1", "Ana")
	require.Equal(t, 6, f.sess.MaxNumber())
	require.Equal(t, 4, f.sess.Target())
	assert.Equal(t, "Ana's turn. Guess the number (1-6):", f.sess.Prompt())
	ctx := context.Background()

	out, err := f.sess.Submit(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, game.HintHigher, out.Hint)

	out, err = f.sess.Submit(ctx, "6")
	require.NoError(t, err)
	assert.Equal(t, game.HintLower, out.Hint)

	out, err = f.sess.Submit(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, game.Outcome{Correct: true, Finished: true}, out)

	assert.Equal(t, game.StateFinished, f.sess.State())
	assert.Equal(t, 1, f.sess.Current())
	assert.Equal(t, 3, f.sess.Players()[0].Tries)
	assert.Equal(t, 3, f.sess.Players()[0].BestScore)
	assert.Equal(t, "Ana won with 3 tries!", f.sess.Prompt())
	assert.Equal(t, game.HintNone, f.sess.Hint())

	saved, err := f.st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Entry{{Name: "Ana", BestScore: 3, GamesPlayed: 1}}, saved)
}

func TestTwoPlayersTie(t *testing.T) {
	f := newFixture(t, game.Options{}, 3, 5)
	submit(t, f.sess, "2", "Ana", "Bia")
	ctx := context.Background()

	out, err := f.sess.SubmitGuess(ctx, 3)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.False(t, out.Finished)
	assert.Equal(t, 1, f.sess.Current())
	assert.Equal(t, 5, f.sess.Target())
	assert.Equal(t, game.HintNone, f.sess.Hint())
	assert.Equal(t, "Bia's turn. Guess the number (1-6):", f.sess.Prompt())

	out, err = f.sess.SubmitGuess(ctx, 5)
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.Equal(t, "Tie! Multiple players with 1 tries!", f.sess.Prompt())
	assert.True(t, f.sess.Result().Tie)
	assert.Equal(t, 2, f.board.Len())
}

func TestRestartKeepsPlayersAndLeavesScoresAlone(t *testing.T) {
	f := newFixture(t, game.Options{}, 4)
	submit(t, f.sess, "1", "Ana", "1", "4")
	require.Equal(t, game.StateFinished, f.sess.State())
	firstRound := f.sess.RoundID()
	ctx := context.Background()
	before, _ := f.st.Load(ctx)
	require.Equal(t, 1, f.st.Saves())

	require.NoError(t, f.sess.Restart())
	assert.Equal(t, game.StatePlaying, f.sess.State())
	assert.Equal(t, 0, f.sess.Current())
	assert.NotEqual(t, firstRound, f.sess.RoundID())
	for _, p := range f.sess.Players() {
		assert.Equal(t, 0, p.Tries)
		assert.Equal(t, 2, p.BestScore)
	}
	after, _ := f.st.Load(ctx)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.st.Saves())

	submit(t, f.sess, "4")
	e, _ := f.board.Entry("Ana")
	assert.Equal(t, store.Entry{Name: "Ana", BestScore: 1, GamesPlayed: 2}, e)
	assert.Equal(t, 1, f.sess.Players()[0].BestScore)
}

func TestWrongStateOperations(t *testing.T) {
	f := newFixture(t, game.Options{}, 4)
	ctx := context.Background()

	_, err := f.sess.SubmitGuess(ctx, 1)
	assert.ErrorIs(t, err, game.ErrWrongState)
	assert.ErrorIs(t, f.sess.SubmitName("Ana"), game.ErrWrongState)
	assert.ErrorIs(t, f.sess.SubmitDifficulty(1), game.ErrWrongState)
	assert.ErrorIs(t, f.sess.Restart(), game.ErrWrongState)

	submit(t, f.sess, "1")
	assert.ErrorIs(t, f.sess.SubmitPlayerCount(2), game.ErrWrongState)

	submit(t, f.sess, "Ana", "4")
	_, err = f.sess.Submit(ctx, "4")
	assert.ErrorIs(t, err, game.ErrWrongState)
}

func TestSessionWithoutScoreboard(t *testing.T) {
	s := game.NewSession(game.Options{}, dice.Fixed(2), nil)
	submit(t, s, "1", "Ana", "2")
	assert.Equal(t, game.StateFinished, s.State())
	assert.Equal(t, 0, s.Players()[0].BestScore)
}

func TestStateAndHintStrings(t *testing.T) {
	assert.Equal(t, "setup", game.StateSetup.String())
	assert.Equal(t, "difficulty_select", game.StateDifficultySelect.String())
	assert.Equal(t, "name_input", game.StateNameInput.String())
	assert.Equal(t, "playing", game.StatePlaying.String())
	assert.Equal(t, "finished", game.StateFinished.String())
	assert.Equal(t, "", game.HintNone.String())
}
