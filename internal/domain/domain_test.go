package domain

import (
	"testing"
	"time"
)

func TestParseBloodType(t *testing.T) {
	cases := []struct {
		in      string
		want    BloodType
		wantErr bool
	}{
		{"A+", BloodAPos, false},
		{"a+", BloodAPos, false},
		{" ab- ", BloodABNeg, false},
		{"o+", BloodOPos, false},
		{"C+", "", true},
		{"A", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseBloodType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseBloodType(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBloodType(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBloodType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDonationDate(t *testing.T) {
	got, err := ParseDonationDate("15.03.2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Day() != 15 || got.Month() != time.March || got.Year() != 2024 {
		t.Fatalf("ParseDonationDate: got %v", got)
	}

	got, err = ParseDonationDate("  Never ")
	if err != nil {
		t.Fatalf("never token: unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("never token: expected nil date, got %v", got)
	}

	for _, bad := range []string{"2024-03-15", "15/03/2024", "32.01.2024", "someday"} {
		if _, err := ParseDonationDate(bad); err == nil {
			t.Errorf("ParseDonationDate(%q): expected error", bad)
		}
	}
}

func TestFormatDateRoundtrip(t *testing.T) {
	if FormatDate(nil) != NeverToken {
		t.Fatalf("FormatDate(nil) = %q", FormatDate(nil))
	}
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if FormatDate(&d) != "05.03.2024" {
		t.Fatalf("FormatDate = %q", FormatDate(&d))
	}
}

func TestNeedStatusCycle(t *testing.T) {
	if NeedOK.Next() != NeedNeed {
		t.Errorf("ok.Next() = %q", NeedOK.Next())
	}
	if NeedNeed.Next() != NeedUrgent {
		t.Errorf("need.Next() = %q", NeedNeed.Next())
	}
	if NeedUrgent.Next() != NeedOK {
		t.Errorf("urgent.Next() = %q", NeedUrgent.Next())
	}
	if NeedOK.Active() || !NeedNeed.Active() || !NeedUrgent.Active() {
		t.Errorf("Active flags wrong: ok=%v need=%v urgent=%v",
			NeedOK.Active(), NeedNeed.Active(), NeedUrgent.Active())
	}
}

func TestCanTransition(t *testing.T) {
	terminal := []ApplicationStatus{ApplicationCompleted, ApplicationCancelled, ApplicationRejected}
	for _, to := range terminal {
		if !CanTransition(ApplicationPending, to) {
			t.Errorf("pending -> %s should be allowed", to)
		}
	}
	for _, from := range terminal {
		for _, to := range append(terminal, ApplicationPending) {
			if CanTransition(from, to) {
				t.Errorf("%s -> %s should be forbidden", from, to)
			}
		}
	}
	if CanTransition(ApplicationPending, ApplicationPending) {
		t.Error("pending -> pending should be forbidden")
	}
}

func TestEligibility(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if !Eligible(nil, now, DefaultDonationIntervalDays) {
		t.Error("never-donated donor must be eligible")
	}
	if WaitDays(nil, now, DefaultDonationIntervalDays) != 0 {
		t.Error("never-donated donor must have zero wait")
	}

	recent := now.AddDate(0, 0, -30)
	if Eligible(&recent, now, DefaultDonationIntervalDays) {
		t.Error("donation 30 days ago must not be eligible")
	}
	if got := WaitDays(&recent, now, DefaultDonationIntervalDays); got != 30 {
		t.Errorf("WaitDays = %d, want 30", got)
	}

	exact := now.AddDate(0, 0, -60)
	if !Eligible(&exact, now, DefaultDonationIntervalDays) {
		t.Error("donation exactly 60 days ago must be eligible")
	}

	old := now.AddDate(0, 0, -90)
	if !Eligible(&old, now, DefaultDonationIntervalDays) {
		t.Error("donation 90 days ago must be eligible")
	}
	if got := WaitDays(&old, now, DefaultDonationIntervalDays); got != 0 {
		t.Errorf("WaitDays = %d, want 0", got)
	}
}

func TestCertificateExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	fresh := now.AddDate(0, 0, -10)
	if CertificateExpired(fresh, now, DefaultCertificateTTLDays) {
		t.Error("10-day-old certificate must be valid")
	}
	stale := now.AddDate(0, 0, -180)
	if !CertificateExpired(stale, now, DefaultCertificateTTLDays) {
		t.Error("180-day-old certificate must be expired")
	}
}
