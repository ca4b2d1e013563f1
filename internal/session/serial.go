package session

import "github.com/vancomm/boolmaze-server/internal/boolmaze"

// Serial letters never include O or Y.
const (
	serialLetters = "ABCDEFGHIJKLMNPQRSTUVWXZ"
	serialDigits  = "0123456789"
)

// GenerateSerial makes a bomb serial number: two alphanumeric characters, a
// digit, two letters and a digit.
func GenerateSerial(src boolmaze.Source) string {
	alphanumeric := serialLetters + serialDigits
	pick := func(set string) byte {
		return set[src.IntN(len(set))]
	}
	return string([]byte{
		pick(alphanumeric),
		pick(alphanumeric),
		pick(serialDigits),
		pick(serialLetters),
		pick(serialLetters),
		pick(serialDigits),
	})
}
