package lifecycle

import "strings"

// ParseCrops splits a comma separated crop list. Tokens are trimmed and empty
// tokens are dropped, so "Yam, , Maize," yields [Yam Maize].
func ParseCrops(raw string) []string {
	return NormalizeCrops(strings.Split(raw, ","))
}

// NormalizeCrops trims every entry and drops the empty ones. It never returns
// nil for a non-empty result.
func NormalizeCrops(crops []string) []string {
	out := make([]string, 0, len(crops))
	for _, c := range crops {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
