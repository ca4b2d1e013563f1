package boolmaze

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Source supplies the digits shown on the display. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

const maxGoalSteps = 100

// AdjustGoal walks goal in the direction encoded by digit until it lands on
// a gate that is neither AND nor NOR.
func AdjustGoal(goal Point, digit int) (Point, error) {
	d := Direction(digit)
	for range maxGoalSteps {
		if !goal.Gate().Dead() {
			return goal, nil
		}
		goal = goal.Step(d, GridSize)
	}
	if !goal.Gate().Dead() {
		return goal, nil
	}
	return goal, fmt.Errorf("%w: walked %d steps with digit %d", ErrNoGoal, maxGoalSteps, digit)
}

type Maze struct {
	id     int
	layout Layout
	goal   Point

	pos    Point
	invert Point
	digit  int

	solved         bool
	awaitingReroll bool

	src    Source
	logger *logrus.Logger
	log    *logrus.Entry
}

type Option func(*Maze)

// WithModuleID sets the number used in log lines. Defaults to 1.
func WithModuleID(id int) Option {
	return func(m *Maze) {
		m.id = id
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(m *Maze) {
		m.logger = logger
	}
}

// New decodes serial, draws the first digit from src and moves the goal off
// any dead gate.
func New(serial string, src Source, opts ...Option) (*Maze, error) {
	layout, err := ParseSerial(serial)
	if err != nil {
		return nil, err
	}

	m := &Maze{
		id:     1,
		layout: layout,
		pos:    layout.Start,
		invert: layout.StartInvert,
		src:    src,
		logger: Log,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.logger.WithField("module", m.id)

	m.digit = src.IntN(4)
	if m.goal, err = AdjustGoal(layout.Goal, m.digit); err != nil {
		return nil, err
	}

	m.logf(logrus.InfoLevel, "Starting location: %v", m.layout.Start)
	m.logf(logrus.InfoLevel, "Ending location: %v", m.goal)
	m.logf(logrus.InfoLevel, "Not grid location: %v", m.layout.StartInvert)
	m.logf(logrus.InfoLevel, "Display is %d", m.digit)

	return m, nil
}

func (m *Maze) logf(level logrus.Level, format string, args ...any) {
	m.log.Logf(level, "[Cruel Boolean Maze #%d] "+format, append([]any{m.id}, args...)...)
}

func (m *Maze) ModuleID() int             { return m.id }
func (m *Maze) Serial() string            { return m.layout.Serial }
func (m *Maze) Start() Point              { return m.layout.Start }
func (m *Maze) StartInvert() Point        { return m.layout.StartInvert }
func (m *Maze) Goal() Point               { return m.goal }
func (m *Maze) Position() Point           { return m.pos }
func (m *Maze) InvertPosition() Point     { return m.invert }
func (m *Maze) Digit() int                { return m.digit }
func (m *Maze) Solved() bool              { return m.solved }
func (m *Maze) AwaitingReroll() bool      { return m.awaitingReroll }
func (m *Maze) Layout() Layout            { return m.layout }
func (m *Maze) Probe(d Direction) Attempt { return m.probe(d) }

// State is a read-only snapshot of a maze.
type State struct {
	Serial         string `json:"serial"`
	Start          Point  `json:"start"`
	StartInvert    Point  `json:"start_invert"`
	Goal           Point  `json:"goal"`
	Position       Point  `json:"position"`
	InvertPosition Point  `json:"invert_position"`
	Digit          int    `json:"digit"`
	Solved         bool   `json:"solved"`
}

func (m *Maze) State() State {
	return State{
		Serial:         m.layout.Serial,
		Start:          m.layout.Start,
		StartInvert:    m.layout.StartInvert,
		Goal:           m.goal,
		Position:       m.pos,
		InvertPosition: m.invert,
		Digit:          m.digit,
		Solved:         m.solved,
	}
}

func (m *Maze) probe(d Direction) Attempt {
	target := m.pos.Step(d, GridSize)
	targetInvert := m.invert.Step(d, InvertGridSize)
	gate := target.Gate()
	inverted := targetInvert.Inverts()
	return Attempt{
		Direction:    d,
		Target:       target,
		TargetInvert: targetInvert,
		Gate:         gate,
		Inverted:     inverted,
		Legal:        Evaluate(gate, m.digit) != inverted,
	}
}

// CanMove reports whether moving in d is legal with the current digit.
func (m *Maze) CanMove(d Direction) bool {
	return m.probe(d).Legal
}

// IsStuck reports whether no direction is legal with the current digit.
func (m *Maze) IsStuck() bool {
	for _, d := range AllDirections() {
		if m.CanMove(d) {
			return false
		}
	}
	return true
}

func (m *Maze) AttemptMove(d Direction) Result {
	return m.Press(Button(d))
}

func (m *Maze) PressStuck() Result {
	return m.Press(ButtonStuck)
}

func (m *Maze) PressReset() Result {
	return m.Press(ButtonReset)
}

// Press processes one button press to completion: the button's own effect,
// then the goal check, then a new digit unless the press was Reset or the
// maze got solved. Presses on a solved maze are ignored.
func (m *Maze) Press(b Button) Result {
	res := Result{
		Button:     b,
		From:       m.pos,
		FromInvert: m.invert,
		Digit:      m.digit,
	}

	if m.solved {
		res.Ignored = true
		m.settle(&res)
		return res
	}

	switch b {
	case ButtonStuck:
		m.pressStuck(&res)
	case ButtonReset:
		m.pressReset(&res)
	default:
		d, ok := b.Direction()
		if !ok {
			res.Ignored = true
			m.settle(&res)
			return res
		}
		m.attemptMove(d, &res)
	}

	if m.pos == m.goal {
		m.solved = true
		res.Effect |= EffectSolved
		m.logf(logrus.InfoLevel, "Defuser reached the goal. Module solved.")
	}

	if !m.solved && b != ButtonReset {
		m.reroll()
		res.Rerolled = true
	}

	m.settle(&res)
	return res
}

func (m *Maze) settle(res *Result) {
	res.To = m.pos
	res.ToInvert = m.invert
	res.NextDigit = m.digit
}

func (m *Maze) attemptMove(d Direction, res *Result) {
	a := m.probe(d)
	res.Attempt = &a

	if !a.Legal {
		res.Effect |= EffectStrike
		m.logf(logrus.InfoLevel,
			"Attempted to move %s to %v with display %d but the %s gate returned 0, strike. Current position %v",
			d, a.Target, m.digit, a.ShownGate(), m.pos,
		)
		return
	}

	m.pos = a.Target
	m.invert = a.TargetInvert
	res.Moved = true
	m.logf(logrus.InfoLevel, "Successfully moved %s to %v", d, m.pos)
	m.logf(logrus.DebugLevel, "Not grid moved %s to %v", d, m.invert)
}

func (m *Maze) pressStuck(res *Result) {
	if m.IsStuck() {
		m.awaitingReroll = true
		m.logf(logrus.InfoLevel, "Defuser correctly pressed Stuck? at %v with no legal moves. Display changed.", m.pos)
		return
	}

	res.Effect |= EffectStrike
	at := m.pos
	m.restart()
	res.Reset = true
	m.logf(logrus.InfoLevel,
		"Defuser pressed Stuck? at %v but there was a legal move, strike, position reset to %v. Not grid reset to %v.",
		at, m.pos, m.invert,
	)
}

func (m *Maze) pressReset(res *Result) {
	m.restart()
	res.Reset = true
	m.logf(logrus.InfoLevel, "Defuser pressed Reset! Position reset to %v. Not grid reset to %v.", m.pos, m.invert)
}

func (m *Maze) restart() {
	m.pos = m.layout.Start
	m.invert = m.layout.StartInvert
}

// reroll draws the next digit. After a correct Stuck? press the new digit
// must differ from the one on the display at this point.
func (m *Maze) reroll() {
	current := m.digit
	next := m.src.IntN(4)
	if m.awaitingReroll {
		for next == current {
			next = m.src.IntN(4)
		}
		m.awaitingReroll = false
	}
	m.digit = next
	m.logf(logrus.DebugLevel, "Display updated to %d", m.digit)
}
