package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
)

var errRateLimited = errors.New("rate limit exceeded")

type wsFrame struct {
	Results []boolmaze.Result `json:"results,omitempty"`
	Session *SessionDTO       `json:"session,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func rerolled(results []boolmaze.Result) bool {
	for _, res := range results {
		if res.Rerolled {
			return true
		}
	}
	return false
}

// wait blocks for d and reports false if ctx ends first.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// ConnectWS streams a session over a websocket. Every text message is a
// batch of remote commands. When a press draws a new digit the session is
// first sent with a blank display, then again with the results and the new
// digit once the blank delay is over.
func (h *MazeHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok || !h.authorize(w, r, s) {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("upgrade failed")
		return
	}
	defer c.Close()

	log := h.logger.WithField("session", s.ID)
	limiter := h.ws.NewLimiter()

	if err := c.WriteJSON(wsFrame{Session: NewSessionDTO(s.Snapshot())}); err != nil {
		log.WithError(err).Warn("write failed")
		return
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read failed")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		if !limiter.Allow() {
			if err := c.WriteJSON(wsFrame{Error: errRateLimited.Error()}); err != nil {
				log.WithError(err).Warn("write failed")
				break
			}
			continue
		}

		results := s.Execute(string(message))
		dto := NewSessionDTO(s.Snapshot())

		if rerolled(results) && h.ws.Blank > 0 {
			if err := c.WriteJSON(wsFrame{Session: dto.Blank()}); err != nil {
				log.WithError(err).Warn("write failed")
				break
			}
			if !wait(r.Context(), h.ws.Blank) {
				break
			}
		}

		if err := c.WriteJSON(wsFrame{Results: results, Session: dto}); err != nil {
			log.WithError(err).Warn("write failed")
			break
		}
	}

	log.WithFields(logrus.Fields{"presses": s.Snapshot().Presses}).Debug("websocket closed")
}
