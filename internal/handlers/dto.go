package handlers

import (
	"net/url"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
	"github.com/vancomm/boolmaze-server/internal/session"
)

type NewMazeDTO struct {
	Serial string `schema:"serial"`
}

type FetchDTO struct {
	Debug bool `schema:"debug"`
}

type PressDTO struct {
	Button string `schema:"button,required"`
}

type RecordsDTO struct {
	Serial     *string `schema:"serial"`
	MaxStrikes *int    `schema:"max_strikes"`
}

func parseQuery[T any](src url.Values) (T, error) {
	var dto T
	err := decoder.Decode(&dto, src)
	return dto, err
}

type SessionDTO struct {
	SessionID      string         `json:"session_id"`
	ModuleID       int            `json:"module_id"`
	Serial         string         `json:"serial"`
	Position       boolmaze.Point `json:"position"`
	InvertPosition boolmaze.Point `json:"invert_position"`
	Start          boolmaze.Point `json:"start"`
	StartInvert    boolmaze.Point `json:"start_invert"`
	Goal           boolmaze.Point `json:"goal"`
	Display        *int           `json:"display"` // null while the display is blank
	Solved         bool           `json:"solved"`
	Strikes        int            `json:"strikes"`
	Presses        int            `json:"presses"`
	StartedAt      int64          `json:"started_at"`
	EndedAt        *int64         `json:"ended_at,omitempty"`
	Render         string         `json:"render,omitempty"`
}

func NewSessionDTO(snap session.Snapshot) *SessionDTO {
	var endedAt *int64
	if snap.EndedAt != nil {
		e := snap.EndedAt.UnixMilli()
		endedAt = &e
	}
	digit := snap.Maze.Digit
	return &SessionDTO{
		SessionID:      snap.ID.String(),
		ModuleID:       snap.ModuleID,
		Serial:         snap.Maze.Serial,
		Position:       snap.Maze.Position,
		InvertPosition: snap.Maze.InvertPosition,
		Start:          snap.Maze.Start,
		StartInvert:    snap.Maze.StartInvert,
		Goal:           snap.Maze.Goal,
		Display:        &digit,
		Solved:         snap.Maze.Solved,
		Strikes:        snap.Strikes,
		Presses:        snap.Presses,
		StartedAt:      snap.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
}

// Blank returns a copy with the display turned off.
func (dto SessionDTO) Blank() *SessionDTO {
	dto.Display = nil
	return &dto
}

type NewMazeResponse struct {
	Session *SessionDTO `json:"session"`
	Ticket  string      `json:"ticket"`
}

type PressResponse struct {
	Result  boolmaze.Result `json:"result"`
	Session *SessionDTO     `json:"session"`
}

type CommandResponse struct {
	Results []boolmaze.Result `json:"results"`
	Session *SessionDTO       `json:"session"`
}
