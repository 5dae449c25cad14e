package layers

import (
	"regexp"
	"strconv"
)

// suffixPattern matches a bracketed counter at the very end of a name.
var suffixPattern = regexp.MustCompile(`\[([0-9]+)\]$`)

// incrementSuffix returns the next candidate after a name collision:
// "x" becomes "x[1]", "x[1]" becomes "x[2]". Only a counter anchored at the
// end counts, so "x[1]a" becomes "x[1]a[1]".
func incrementSuffix(name string) string {
	m := suffixPattern.FindStringSubmatchIndex(name)
	if m == nil {
		return name + "[1]"
	}
	n, err := strconv.Atoi(name[m[2]:m[3]])
	if err != nil {
		// Counter too large for an int; start a new one.
		return name + "[1]"
	}
	return name[:m[0]] + "[" + strconv.Itoa(n+1) + "]"
}

// AvailableName returns candidate, or the first suffixed variant of it that
// no layer in the store is using.
func (s *Store[S]) AvailableName(candidate string) string {
	return nextFree(s.index, candidate)
}

// nextFree applies incrementSuffix until candidate is not a key of index.
func nextFree(index map[string]int, candidate string) string {
	for {
		if _, taken := index[candidate]; !taken {
			return candidate
		}
		candidate = incrementSuffix(candidate)
	}
}
