package skills

import (
	"regexp"
	"strconv"
)

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years|yrs)\s+(?:of\s+)?experience`)

// YearsOfExperience returns the largest "N years of experience" figure stated in
// text. ok is false when no such phrase is present.
func YearsOfExperience(text string) (years int, ok bool) {
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !ok || n > years {
			years, ok = n, true
		}
	}
	return years, ok
}
