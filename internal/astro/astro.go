// Package astro holds small chart-formatting helpers: the sign table,
// house arithmetic relative to an ascendant, and degree formatting.
package astro

import "fmt"

// Planets recognized in the primary chart, in traditional order.
var Planets = []string{
	"Sun", "Moon", "Mars", "Mercury", "Jupiter",
	"Venus", "Saturn", "Rahu", "Ketu",
}

// ZodiacSigns in zodiacal order.
var ZodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

func signIndex(sign string) int {
	for i, s := range ZodiacSigns {
		if s == sign {
			return i
		}
	}
	return -1
}

// HouseNumber returns the whole-sign house (1..12) a body in planetSign
// occupies relative to lagnaSign, or 0 when either sign is unknown.
func HouseNumber(planetSign, lagnaSign string) int {
	pi := signIndex(planetSign)
	li := signIndex(lagnaSign)
	if pi < 0 || li < 0 {
		return 0
	}
	house := pi - li + 1
	if house <= 0 {
		house += 12
	}
	return house
}

// Ordinal renders a house number as "1st", "2nd", "3rd", "4th", ...
func Ordinal(n int) string {
	if n <= 0 {
		return ""
	}
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// FormatDegree renders a longitude as degrees, minutes and seconds.
func FormatDegree(deg float64) string {
	if deg < 0 {
		deg = 0
	}
	d := int(deg)
	mf := (deg - float64(d)) * 60
	m := int(mf)
	s := int((mf - float64(m)) * 60)
	return fmt.Sprintf("%d° %d' %d\"", d, m, s)
}

// NormalizeBodyName maps provider name variants to canonical names.
func NormalizeBodyName(name string) string {
	switch name {
	case "Raagu":
		return "Rahu"
	case "Kethu":
		return "Ketu"
	default:
		return name
	}
}
