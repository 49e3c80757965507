package stats

import (
	"fmt"

	"predix/domain/core"
)

// Mode selects the statistical test family for the association run.
type Mode string

const (
	ModeLinear   Mode = "linear"
	ModeLogistic Mode = "logistic"
)

// Modes is the allowed mode set.
var Modes = []Mode{ModeLinear, ModeLogistic}

// Valid reports whether the mode is part of the allowed set.
func (m Mode) Valid() bool {
	for _, k := range Modes {
		if m == k {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// ParseMode validates a raw mode string against the allowed set.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidMode, s)
	}
	return m, nil
}
