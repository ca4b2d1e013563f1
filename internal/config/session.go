package config

import (
	"fmt"
	"time"
)

type Sessions struct {
	IdleTTL      time.Duration
	ReapInterval time.Duration
}

func NewSessions() (*Sessions, error) {
	ttl, err := lookupDuration("SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", ttl)
	}

	interval := ttl / 10
	if interval < time.Second {
		interval = time.Second
	}

	return &Sessions{IdleTTL: ttl, ReapInterval: interval}, nil
}
