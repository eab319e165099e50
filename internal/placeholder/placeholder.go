// Package placeholder derives the decorative fallback shown when no
// portrait could be resolved for an artist.
package placeholder

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	hueBase  = 20
	hueRange = 40
)

// Style is the deterministic placeholder for one display name.
type Style struct {
	Hue     int    `json:"hue"`
	Initial string `json:"initial"`
}

// Derive computes the placeholder style for displayName. It is a pure
// function: the same name always yields the same Style. A name with a
// single rune uses zero for the missing second code point.
func Derive(displayName string) Style {
	first, size := utf8.DecodeRuneInString(displayName)
	if size == 0 {
		return Style{Hue: hueBase}
	}
	var second rune
	if rest := displayName[size:]; rest != "" {
		second, _ = utf8.DecodeRuneInString(rest)
	}
	return Style{
		Hue:     (int(first)*7+int(second)*3)%hueRange + hueBase,
		Initial: strings.ToUpper(string(first)),
	}
}

// Background returns the CSS gradient drawn behind the initial.
func (s Style) Background() string {
	return fmt.Sprintf("linear-gradient(135deg, hsl(%d 60%% 95%%) 0%%, hsl(%d 50%% 90%%) 100%%)", s.Hue, s.Hue+20)
}

// Foreground returns the CSS colour of the initial at the given alpha.
func (s Style) Foreground(alpha float64) string {
	return fmt.Sprintf("hsl(%d 40%% 40%% / %g)", s.Hue, alpha)
}
