package deck

import (
	"regexp"
	"strings"
)

// BulletCount is the number of bullets every slide body carries.
const BulletCount = 3

var bulletRe = regexp.MustCompile(`^[A-C]\. \S`)

// IsBulletLine reports whether a trimmed line is an "A. ", "B. " or "C. " bullet.
func IsBulletLine(line string) bool {
	return bulletRe.MatchString(strings.TrimSpace(line))
}

// BulletLines returns the bullet lines of body in order, trimmed.
func BulletLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if IsBulletLine(line) {
			out = append(out, line)
		}
	}
	return out
}

// IsBulletBody reports whether body is exactly three bullet lines.
func IsBulletBody(body string) bool {
	lines := strings.Split(body, "\n")
	if len(lines) != BulletCount {
		return false
	}
	for _, line := range lines {
		if !IsBulletLine(line) {
			return false
		}
	}
	return true
}
