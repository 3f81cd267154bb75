// Package horoscope defines the zodiac signs and the per-day record stored for
// each of them.
package horoscope

import (
	"fmt"
	"strings"
)

// Sign is a zodiac sign label exactly as it appears in article headers.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// AllSigns lists the twelve signs in zodiac order. Processing does not depend
// on this order.
var AllSigns = []Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

func (s Sign) String() string {
	return string(s)
}

// Valid reports whether s is one of the twelve known signs.
func (s Sign) Valid() bool {
	for _, known := range AllSigns {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSign returns the sign matching name, ignoring case and surrounding
// whitespace.
func ParseSign(name string) (Sign, error) {
	name = strings.TrimSpace(name)
	for _, known := range AllSigns {
		if strings.EqualFold(name, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown sign: %q", name)
}
