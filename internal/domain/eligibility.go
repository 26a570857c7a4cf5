package domain

import "time"

const (
	// DefaultDonationIntervalDays is the minimum gap between whole-blood donations.
	DefaultDonationIntervalDays = 60
	// DefaultCertificateTTLDays is how long a donation certificate stays valid.
	DefaultCertificateTTLDays = 180
)

// Eligible reports whether a donor with the given last donation date may
// donate again. A donor who never donated is always eligible.
func Eligible(last *time.Time, now time.Time, intervalDays int) bool {
	if last == nil {
		return true
	}
	return daysBetween(*last, now) >= intervalDays
}

// WaitDays returns how many days remain until the donor becomes eligible.
// Zero means the donor may donate now.
func WaitDays(last *time.Time, now time.Time, intervalDays int) int {
	if last == nil {
		return 0
	}
	remaining := intervalDays - daysBetween(*last, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CertificateExpired reports whether a certificate uploaded at the given
// time has passed its validity window.
func CertificateExpired(uploadedAt time.Time, now time.Time, ttlDays int) bool {
	return daysBetween(uploadedAt, now) >= ttlDays
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
