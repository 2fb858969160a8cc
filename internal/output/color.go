package output

import (
	"strconv"

	"github.com/fatih/color"
)

// Rating bands, matching how zero-centered ratings are read: strongly
// negative values glow red, mildly negative yellow, positive blue, strongly
// positive green. Zero is a standard value and stays plain.
var (
	ratingAwful = color.New(color.FgRed)
	ratingBad   = color.New(color.FgHiRed)
	ratingMeh   = color.New(color.FgYellow)
	ratingGood  = color.New(color.FgBlue)
	ratingGreat = color.New(color.FgGreen)
)

// ColorRating renders a rating value with its band color. Color is
// automatically suppressed when stdout is not a terminal.
func ColorRating(r int) string {
	s := strconv.Itoa(r)
	switch {
	case r <= -10:
		return ratingAwful.Sprint(s)
	case r <= -5:
		return ratingBad.Sprint(s)
	case r < 0:
		return ratingMeh.Sprint(s)
	case r >= 10:
		return ratingGreat.Sprint(s)
	case r > 0:
		return ratingGood.Sprint(s)
	default:
		return s
	}
}
