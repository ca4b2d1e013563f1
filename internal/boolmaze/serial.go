package boolmaze

import (
	"fmt"
	"strings"
)

const SerialLength = 6

// DigitValue converts a serial character to a main grid coordinate.
// Digits keep their value, letters count from A=1, and anything above 9
// wraps back by tens.
func DigitValue(c byte) (int, error) {
	var n int
	switch {
	case '0' <= c && c <= '9':
		n = int(c - '0')
	case 'A' <= c && c <= 'Z':
		n = int(c-'A') + 1
	case 'a' <= c && c <= 'z':
		n = int(c-'a') + 1
	default:
		return 0, fmt.Errorf("%w: character %q is not alphanumeric", ErrInvalidSerial, c)
	}
	for n > 9 {
		n -= 10
	}
	return n, nil
}

// DigitValue5 converts a serial character to an invert grid coordinate.
func DigitValue5(c byte) (int, error) {
	n, err := DigitValue(c)
	if err != nil {
		return 0, err
	}
	for n > 4 {
		n -= 5
	}
	return n, nil
}

// Layout is the set of positions a serial number decodes to.
type Layout struct {
	Serial      string
	Start       Point
	StartInvert Point
	Goal        Point // before the dead-gate adjustment
}

// ParseSerial decodes the first six characters of a serial number.
func ParseSerial(serial string) (Layout, error) {
	serial = strings.ToUpper(strings.TrimSpace(serial))
	if len(serial) < SerialLength {
		return Layout{}, fmt.Errorf(
			"%w: need %d characters, got %d", ErrInvalidSerial, SerialLength, len(serial),
		)
	}
	var v [SerialLength]int
	for i := range SerialLength {
		var err error
		if i < 2 {
			v[i], err = DigitValue5(serial[i])
		} else {
			v[i], err = DigitValue(serial[i])
		}
		if err != nil {
			return Layout{}, err
		}
	}
	return Layout{
		Serial:      serial[:SerialLength],
		StartInvert: Point{v[0], v[1]},
		Start:       Point{v[2], v[3]},
		Goal:        Point{v[4], v[5]},
	}, nil
}
