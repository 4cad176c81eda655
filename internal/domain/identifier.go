package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseAuthorID parses a single author identifier token. Source data carries
// IDs both as integers and as decimal-like floats ("57190971709" and
// "57190971709.0" name the same author), so every identifier on either side
// of the roster join goes through this parse to keep equality
// representation-independent. Scopus IDs stay well below 2^53, so the float
// round-trip is exact.
func ParseAuthorID(token string) (int64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts "NaN" and "Inf", whose int64 conversion is
	// platform-defined; such tokens are not identifiers.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
