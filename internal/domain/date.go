package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted input and display format for dates.
const DateLayout = "02.01.2006"

// NeverToken marks a donor who has never donated before.
const NeverToken = "never"

// ParseDonationDate parses DD.MM.YYYY input or the "never" token.
// A nil result with a nil error means the donor has no prior donation.
func ParseDonationDate(raw string) (*time.Time, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == NeverToken {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected DD.MM.YYYY or %q", raw, NeverToken)
	}
	return &t, nil
}

// FormatDate renders a date in DD.MM.YYYY, or the "never" token for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return NeverToken
	}
	return t.Format(DateLayout)
}
