package ordercode

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"
)

const (
	prefix      = "BT"
	suffixLen   = 4
	suffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	datePattern = "060102"
)

var codePattern = regexp.MustCompile(`^BT-\d{6}-[A-Z0-9]{4}$`)

// Generate returns a human-readable order code of the form BT-YYMMDD-XXXX,
// where XXXX is drawn from [A-Z0-9] via crypto/rand.
func Generate(now time.Time) (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order code suffix: %w", err)
	}
	suffix := make([]byte, suffixLen)
	for i, b := range buf {
		suffix[i] = suffixChars[int(b)%len(suffixChars)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format(datePattern), suffix), nil
}

// Valid reports whether the provided string is a well-formed order code.
func Valid(code string) bool {
	return codePattern.MatchString(code)
}
