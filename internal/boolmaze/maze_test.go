package boolmaze

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// script hands out digits in order and fails the test when it runs dry.
type script struct {
	t      *testing.T
	digits []int
	next   int
}

func newScript(t *testing.T, digits ...int) *script {
	return &script{t: t, digits: digits}
}

func (s *script) IntN(n int) int {
	require.Less(s.t, s.next, len(s.digits), "digit source exhausted")
	d := s.digits[s.next]
	s.next += 1
	return d % n
}

func (s *script) used() int {
	return s.next
}

func newMaze(t *testing.T, serial string, digits ...int) (*Maze, *script) {
	src := newScript(t, digits...)
	m, err := New(serial, src)
	require.NoError(t, err)
	return m, src
}

func TestNewInvalidSerial(t *testing.T) {
	_, err := New("AB12", newScript(t, 0))
	assert.ErrorIs(t, err, ErrInvalidSerial)
}

func TestAdjustGoalSweep(t *testing.T) {
	for row := range GridSize {
		for col := range GridSize {
			for digit := range 4 {
				goal, err := AdjustGoal(Point{row, col}, digit)
				require.NoError(t, err)
				assert.False(t, goal.Gate().Dead(), "goal (%d,%d) digit %d ended on %s", row, col, digit, goal.Gate())
				if !(Point{row, col}).Gate().Dead() {
					assert.Equal(t, Point{row, col}, goal)
				}
			}
		}
	}
}

func TestAdjustGoalDirection(t *testing.T) {
	tests := []struct {
		digit int
		want  Point
	}{
		{0, Point{9, 0}},
		{1, Point{0, 1}},
		{2, Point{1, 0}},
		{3, Point{0, 9}},
	}
	for _, test := range tests {
		goal, err := AdjustGoal(Point{0, 0}, test.digit)
		require.NoError(t, err)
		assert.Equal(t, test.want, goal, "digit %d", test.digit)
	}

	_, err := AdjustGoal(Point{0, 0}, 7)
	assert.ErrorIs(t, err, ErrNoGoal)
}

func TestNewAdjustsGoal(t *testing.T) {
	m, _ := newMaze(t, "AB1200", 1)
	assert.Equal(t, Point{0, 1}, m.Goal())
	assert.Equal(t, Xor, m.Goal().Gate())
}

func TestGolden(t *testing.T) {
	m, src := newMaze(t, "AB1234", 1, 1, 2, 0, 3)
	require.Equal(t, Point{1, 2}, m.Position())
	require.Equal(t, Point{1, 2}, m.InvertPosition())
	require.Equal(t, Point{3, 4}, m.Goal())
	require.Equal(t, 1, m.Digit())

	var (
		effects []Effect
		strikes int
	)
	for _, d := range []Direction{Up, Right, Right, Down} {
		res := m.AttemptMove(d)
		effects = append(effects, res.Effect)
		if res.Strike() {
			strikes += 1
		}
	}

	assert.Equal(t, []Effect{EffectStrike, EffectNone, EffectStrike, EffectStrike}, effects)
	assert.Equal(t, 3, strikes)
	assert.Equal(t, Point{1, 3}, m.Position())
	assert.Equal(t, Point{1, 3}, m.InvertPosition())
	assert.Equal(t, 3, m.Digit())
	assert.False(t, m.Solved())
	assert.Equal(t, 5, src.used())
}

func TestStrikeReportsGate(t *testing.T) {
	m, _ := newMaze(t, "AB1234", 1, 1)
	res := m.AttemptMove(Up)

	require.NotNil(t, res.Attempt)
	assert.False(t, res.Attempt.Legal)
	assert.Equal(t, Point{0, 2}, res.Attempt.Target)
	assert.Equal(t, Point{0, 2}, res.Attempt.TargetInvert)
	assert.Equal(t, Or, res.Attempt.Gate)
	assert.True(t, res.Attempt.Inverted)
	assert.Equal(t, Nor, res.Attempt.ShownGate())
	assert.Equal(t, Point{1, 2}, res.From)
	assert.Equal(t, Point{1, 2}, res.To)
	assert.Equal(t, 1, res.Digit)
	assert.Equal(t, 1, res.NextDigit)
}

func TestWrapAround(t *testing.T) {
	m, _ := newMaze(t, "000255", 0, 1)
	res := m.AttemptMove(Up)

	assert.True(t, res.Moved)
	assert.Equal(t, EffectNone, res.Effect)
	assert.Equal(t, Point{9, 2}, m.Position())
	assert.Equal(t, Point{4, 0}, m.InvertPosition())
}

func TestInvertFlipsLegality(t *testing.T) {
	// Both mazes start on (0,2) and try to move up onto a XOR gate. Only the
	// first one enters an inverting cell of the small grid.
	for digit := range 4 {
		inverted, _ := newMaze(t, "000255", digit, 0)
		plain, _ := newMaze(t, "100255", digit, 0)

		a, b := inverted.Probe(Up), plain.Probe(Up)
		require.True(t, a.Inverted)
		require.False(t, b.Inverted)
		require.Equal(t, a.Gate, b.Gate)

		assert.NotEqual(t, a.Legal, b.Legal, "digit %d", digit)
		assert.Equal(t, Evaluate(Xor, digit), b.Legal, "digit %d", digit)
	}

	inverted, _ := newMaze(t, "000255", 1, 0)
	plain, _ := newMaze(t, "100255", 1, 0)
	assert.True(t, inverted.AttemptMove(Up).Strike())
	assert.True(t, plain.AttemptMove(Up).Moved)
}

func TestStuckCorrect(t *testing.T) {
	m, src := newMaze(t, "110055", 3, 3, 3, 1)
	require.True(t, m.IsStuck())

	res := m.PressStuck()

	assert.Equal(t, EffectNone, res.Effect)
	assert.False(t, res.Reset)
	assert.Equal(t, Point{0, 0}, m.Position())
	assert.Equal(t, 1, m.Digit())
	assert.False(t, m.AwaitingReroll())
	assert.Equal(t, 4, src.used())
}

func TestStuckIncorrect(t *testing.T) {
	m, src := newMaze(t, "222255", 1, 0, 2)

	res := m.AttemptMove(Down)
	require.True(t, res.Moved)
	require.Equal(t, Point{3, 2}, m.Position())
	require.Equal(t, 0, m.Digit())

	legal := 0
	for _, d := range AllDirections() {
		if m.CanMove(d) {
			legal += 1
		}
	}
	require.Equal(t, 1, legal)
	require.True(t, m.CanMove(Left))

	res = m.PressStuck()

	assert.True(t, res.Strike())
	assert.True(t, res.Reset)
	assert.Equal(t, Point{2, 2}, m.Position())
	assert.Equal(t, Point{2, 2}, m.InvertPosition())
	assert.Equal(t, 2, m.Digit())
	assert.Equal(t, 3, src.used())
}

func TestStuckRerollMayRepeatEarlierDigit(t *testing.T) {
	m, _ := newMaze(t, "110055", 3, 3)
	require.True(t, m.IsStuck())

	// The stuck press sees digit 3 on the display and must move off it; it
	// does not have to avoid anything else.
	m.awaitingReroll = true
	m.digit = 0
	m.reroll()
	assert.Equal(t, 3, m.Digit())
}

func TestResetIdempotent(t *testing.T) {
	m, src := newMaze(t, "222255", 1, 0)
	m.AttemptMove(Down)
	require.Equal(t, Point{3, 2}, m.Position())

	for range 2 {
		res := m.PressReset()
		assert.Equal(t, EffectNone, res.Effect)
		assert.True(t, res.Reset)
		assert.Equal(t, Point{2, 2}, m.Position())
		assert.Equal(t, Point{2, 2}, m.InvertPosition())
		assert.Equal(t, 0, m.Digit())
	}
	assert.Equal(t, 2, src.used())
}

func TestSolve(t *testing.T) {
	m, src := newMaze(t, "004555", 1)
	res := m.AttemptMove(Down)

	assert.True(t, res.Solved())
	assert.False(t, res.Strike())
	assert.True(t, m.Solved())
	assert.Equal(t, Point{5, 5}, m.Position())
	assert.Equal(t, 1, src.used())

	before := m.State()
	for _, b := range []Button{ButtonUp, ButtonDown, ButtonLeft, ButtonRight, ButtonStuck, ButtonReset} {
		res := m.Press(b)
		assert.True(t, res.Ignored)
		assert.Equal(t, EffectNone, res.Effect)
		assert.Equal(t, before, m.State())
	}
	assert.Equal(t, 1, src.used())
}

func TestSolveOnStart(t *testing.T) {
	m, _ := newMaze(t, "005555", 0)
	res := m.AttemptMove(Up)

	assert.True(t, res.Strike())
	assert.True(t, res.Solved())
	assert.Equal(t, "strike+solved", res.Effect.String())
}

func TestSeededPlay(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	m, err := New("AB1234", rnd, WithModuleID(7))
	require.NoError(t, err)
	assert.Equal(t, 7, m.ModuleID())

	for range 200 {
		if m.Solved() {
			break
		}
		prev := m.State()
		res := m.AttemptMove(Direction(rnd.IntN(4)))
		assert.Equal(t, res.Strike(), !res.Moved)
		if res.Strike() {
			assert.Equal(t, prev.Position, m.Position())
			assert.Equal(t, prev.InvertPosition, m.InvertPosition())
		}
		assert.GreaterOrEqual(t, m.Digit(), 0)
		assert.Less(t, m.Digit(), 4)
	}
}

func TestString(t *testing.T) {
	m, _ := newMaze(t, "AB1234", 1)
	s := m.String()
	assert.Contains(t, s, "serial AB1234  display 1")
	assert.Contains(t, s, "@")
	assert.Contains(t, s, "G")
	assert.Equal(t, GridSize+1, len(splitLines(s)))
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range byLine(s) {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
