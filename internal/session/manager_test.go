package session

import "testing"

func TestManagerStateLifecycle(t *testing.T) {
	m := NewManager()
	const user = int64(42)

	if m.InProgress(user) {
		t.Fatal("fresh user must not be in progress")
	}
	if got := m.GetState(user); got != StateIdle {
		t.Fatalf("fresh user state = %q, want idle", got)
	}

	m.SetState(user, State("donor_city"))
	if !m.InProgress(user) {
		t.Fatal("user with active state must be in progress")
	}
	if got := m.GetState(user); got != State("donor_city") {
		t.Fatalf("state = %q", got)
	}

	m.Reset(user)
	if m.InProgress(user) {
		t.Fatal("reset user must not be in progress")
	}
}

func TestManagerDraftsSurviveStateChange(t *testing.T) {
	m := NewManager()
	const user = int64(7)

	sess := m.Get(user)
	sess.Donor = &DonorDraft{City: "Almaty"}
	m.SetState(user, State("donor_location"))

	again := m.Get(user)
	if again.Donor == nil || again.Donor.City != "Almaty" {
		t.Fatalf("draft lost across state change: %+v", again.Donor)
	}

	m.Reset(user)
	if m.Get(user).Donor != nil {
		t.Fatal("reset must drop drafts")
	}
}
