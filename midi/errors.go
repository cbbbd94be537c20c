package midi

import (
	"errors"
	"strings"
)

var (
	ErrNoPort      = errors.New("no matching MIDI port")
	ErrScanTimeout = errors.New("MIDI port scan timed out")
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
