package boolmaze

import "errors"

var (
	ErrInvalidSerial = errors.New("invalid serial number")
	ErrInvalidButton = errors.New("invalid button")
	ErrNoGoal        = errors.New("no live goal cell reachable")
)
