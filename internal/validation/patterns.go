package validation

import (
	"regexp"
	"strings"
	"time"
)

// Identifier rules. The two patterns are distinct on purpose: an object id is
// 36 bare hex characters, a UUID is the canonical hyphenated form.
var (
	ObjectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{36}$`)
	UUIDPattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

const (
	ObjectIDMessage = "Your string fails to match the Object Id pattern!"
	UUIDMessage     = "Your string fails to match the UUID pattern!"
)

// IsObjectID reports whether s matches the object id rule.
func IsObjectID(s string) bool {
	return ObjectIDPattern.MatchString(s)
}

// IsUUID reports whether s matches the UUID rule.
func IsUUID(s string) bool {
	return UUIDPattern.MatchString(s)
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var looseDateLayouts = append(append([]string{}, isoLayouts...),
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123,
	time.RFC1123Z,
)

// ParseDate parses an ISO 8601 date or date-time.
func ParseDate(s string) (time.Time, bool) {
	return parseWith(isoLayouts, s)
}

// ParseDateValue also accepts the common non-ISO layouts browsers send.
func ParseDateValue(s string) (time.Time, bool) {
	return parseWith(looseDateLayouts, s)
}

func parseWith(layouts []string, s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
