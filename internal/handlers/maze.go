package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
	"github.com/vancomm/boolmaze-server/internal/config"
	"github.com/vancomm/boolmaze-server/internal/middleware"
	"github.com/vancomm/boolmaze-server/internal/session"
)

const maxCommandBody = 64 << 10

var errOtherSession = errors.New("ticket belongs to another session")

type MazeHandler struct {
	logger      *logrus.Logger
	sessions    *session.Registry
	cookies     *config.Cookies
	ws          *config.WebSocket
	development bool
}

func NewMazeHandler(
	logger *logrus.Logger,
	sessions *session.Registry,
	cookies *config.Cookies,
	ws *config.WebSocket,
	development bool,
) *MazeHandler {
	return &MazeHandler{
		logger:      logger,
		sessions:    sessions,
		cookies:     cookies,
		ws:          ws,
		development: development,
	}
}

// lookup finds the session named by the {id} path value or answers 404.
func (h *MazeHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Lookup(r.PathValue("id"))
	if errors.Is(err, session.ErrSessionNotFound) {
		sendError(w, h.logger, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		sendError(w, h.logger, http.StatusInternalServerError, err)
		return nil, false
	}
	return s, true
}

// authorize checks that the request carries a ticket for s.
func (h *MazeHandler) authorize(w http.ResponseWriter, r *http.Request, s *session.Session) bool {
	claims, ok := middleware.TicketClaims(r.Context())
	if !ok {
		sendError(w, h.logger, http.StatusUnauthorized, config.ErrNoTicket)
		return false
	}
	if claims.SessionID != s.ID.String() {
		sendError(w, h.logger, http.StatusForbidden, errOtherSession)
		return false
	}
	return true
}

func (h *MazeHandler) NewMaze(w http.ResponseWriter, r *http.Request) {
	dto, err := parseQuery[NewMazeDTO](r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sessions.Create(strings.TrimSpace(dto.Serial))
	if errors.Is(err, boolmaze.ErrInvalidSerial) {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("unable to create session")
		sendError(w, h.logger, http.StatusInternalServerError, fmt.Errorf("unable to create session"))
		return
	}

	ticket, err := h.cookies.Issue(w, s.ID.String())
	if err != nil {
		h.sessions.Delete(s.ID)
		h.logger.WithError(err).Error("unable to issue ticket")
		sendError(w, h.logger, http.StatusInternalServerError, fmt.Errorf("unable to issue ticket"))
		return
	}

	sendJSONOrLog(w, h.logger, NewMazeResponse{
		Session: NewSessionDTO(s.Snapshot()),
		Ticket:  ticket,
	})
}

func (h *MazeHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	dto, err := parseQuery[FetchDTO](r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	snap := s.Snapshot()
	res := NewSessionDTO(snap)
	if dto.Debug && h.development {
		res.Render = snap.Render
	}
	sendJSONOrLog(w, h.logger, res)
}

func (h *MazeHandler) Press(w http.ResponseWriter, r *http.Request) {
	dto, err := parseQuery[PressDTO](r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	button, err := boolmaze.ParseButton(strings.ToLower(dto.Button))
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := h.lookup(w, r)
	if !ok || !h.authorize(w, r, s) {
		return
	}

	result := s.Press(button)
	sendJSONOrLog(w, h.logger, PressResponse{
		Result:  result,
		Session: NewSessionDTO(s.Snapshot()),
	})
}

// Command applies the newline-separated remote commands in the request body.
func (h *MazeHandler) Command(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok || !h.authorize(w, r, s) {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBody))
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	results := s.Execute(string(body))
	if results == nil {
		results = []boolmaze.Result{}
	}
	sendJSONOrLog(w, h.logger, CommandResponse{
		Results: results,
		Session: NewSessionDTO(s.Snapshot()),
	})
}

func (h *MazeHandler) Help(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, h.logger, map[string]string{
		"help": boolmaze.HelpMessage,
	})
}
