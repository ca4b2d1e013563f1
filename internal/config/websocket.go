package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type WebSocket struct {
	Upgrader websocket.Upgrader

	// Blank is how long the display stays dark before the new digit shows.
	Blank time.Duration

	CommandRate  rate.Limit
	CommandBurst int
}

func NewWebSocket() (*WebSocket, error) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	blank, err := lookupDuration("DISPLAY_BLANK", 200*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_BLANK: %w", err)
	}

	commandRate, err := lookupFloat("COMMAND_RATE", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMAND_RATE: %w", err)
	}

	burst, err := lookupInt("COMMAND_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMAND_BURST: %w", err)
	}

	ws := &WebSocket{
		Upgrader:     upgrader,
		Blank:        blank,
		CommandRate:  rate.Limit(commandRate),
		CommandBurst: burst,
	}

	return ws, nil
}

// NewLimiter returns a limiter for the commands of one connection.
func (ws *WebSocket) NewLimiter() *rate.Limiter {
	return rate.NewLimiter(ws.CommandRate, ws.CommandBurst)
}
