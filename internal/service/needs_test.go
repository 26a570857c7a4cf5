package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/notify"
)

type fakeNeedRepo struct {
	statuses map[domain.BloodType]domain.NeedStatus
}

func (f *fakeNeedRepo) Get(_ context.Context, _ int64, bt domain.BloodType) (domain.NeedStatus, error) {
	if st, ok := f.statuses[bt]; ok {
		return st, nil
	}
	return domain.NeedOK, nil
}

func (f *fakeNeedRepo) Upsert(_ context.Context, _ int64, bt domain.BloodType, st domain.NeedStatus, _ time.Time) error {
	f.statuses[bt] = st
	return nil
}

func (f *fakeNeedRepo) ByCenter(_ context.Context, _ int64) (map[domain.BloodType]domain.NeedStatus, error) {
	return f.statuses, nil
}

type fakeDonorLister struct {
	donors []domain.User
}

func (f *fakeDonorLister) EligibleDonorsByType(_ context.Context, _ domain.BloodType, _ time.Time) ([]domain.User, error) {
	return f.donors, nil
}

type fakeBroadcaster struct {
	calls      int
	recipients []int64
	err        error
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, chatIDs []int64, _ string) (notify.Result, error) {
	f.calls++
	f.recipients = chatIDs
	if f.err != nil {
		return notify.Result{}, f.err
	}
	return notify.Result{BatchID: "batch", Sent: len(chatIDs)}, nil
}

func sptr(s string) *string   { return &s }
func fptr(v float64) *float64 { return &v }

func testCenter() *domain.MedicalCenter {
	return &domain.MedicalCenter{
		ID:        1,
		Name:      "City Blood Center",
		City:      "Almaty",
		Address:   "Abay Ave 1",
		Latitude:  fptr(43.24),
		Longitude: fptr(76.91),
	}
}

func TestToggleCycleBroadcastsOnlyOnUrgent(t *testing.T) {
	repo := &fakeNeedRepo{statuses: make(map[domain.BloodType]domain.NeedStatus)}
	donors := &fakeDonorLister{donors: []domain.User{
		{TelegramID: 100, City: sptr("Almaty")},
	}}
	bc := &fakeBroadcaster{}
	svc := NewNeedService(repo, donors, bc, NeedConfig{})
	center := testCenter()
	ctx := context.Background()

	st, err := svc.Toggle(ctx, center, domain.BloodOPos)
	if err != nil || st != domain.NeedNeed {
		t.Fatalf("first toggle: status=%q err=%v", st, err)
	}
	if bc.calls != 0 {
		t.Fatal("need status must not broadcast")
	}

	st, err = svc.Toggle(ctx, center, domain.BloodOPos)
	if err != nil || st != domain.NeedUrgent {
		t.Fatalf("second toggle: status=%q err=%v", st, err)
	}
	if bc.calls != 1 {
		t.Fatalf("urgent must broadcast exactly once, got %d", bc.calls)
	}

	st, err = svc.Toggle(ctx, center, domain.BloodOPos)
	if err != nil || st != domain.NeedOK {
		t.Fatalf("third toggle: status=%q err=%v", st, err)
	}
	if bc.calls != 1 {
		t.Fatalf("leaving urgent must not broadcast again, got %d", bc.calls)
	}
}

func TestSelectRecipients(t *testing.T) {
	center := testCenter()
	donors := []domain.User{
		{TelegramID: 1, City: sptr("Almaty")},
		{TelegramID: 2, City: sptr("ALMATY")},
		{TelegramID: 3, City: sptr("Astana")},
		{TelegramID: 4, City: sptr("Astana"), Latitude: fptr(43.25), Longitude: fptr(76.92)},
		{TelegramID: 5},
	}

	got := selectRecipients(donors, center, 50)
	want := []int64{1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("recipients = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recipients = %v, want %v", got, want)
		}
	}
}

func TestToggleKeepsStatusWhenAlertFails(t *testing.T) {
	repo := &fakeNeedRepo{statuses: map[domain.BloodType]domain.NeedStatus{
		domain.BloodOPos: domain.NeedNeed,
	}}
	donors := &fakeDonorLister{donors: []domain.User{
		{TelegramID: 100, City: sptr("Almaty")},
	}}
	bc := &fakeBroadcaster{err: errors.New("telegram unavailable")}
	svc := NewNeedService(repo, donors, bc, NeedConfig{})

	st, err := svc.Toggle(context.Background(), testCenter(), domain.BloodOPos)
	if err != nil {
		t.Fatalf("toggle must not surface alert errors: %v", err)
	}
	if st != domain.NeedUrgent {
		t.Fatalf("status = %q, want urgent", st)
	}
	if repo.statuses[domain.BloodOPos] != domain.NeedUrgent {
		t.Fatalf("persisted status = %q, want urgent", repo.statuses[domain.BloodOPos])
	}
	if bc.calls != 1 {
		t.Fatalf("broadcast attempts = %d, want 1", bc.calls)
	}
}

func TestToggleUrgentWithNoRecipients(t *testing.T) {
	repo := &fakeNeedRepo{statuses: map[domain.BloodType]domain.NeedStatus{
		domain.BloodANeg: domain.NeedNeed,
	}}
	bc := &fakeBroadcaster{}
	svc := NewNeedService(repo, &fakeDonorLister{}, bc, NeedConfig{})

	st, err := svc.Toggle(context.Background(), testCenter(), domain.BloodANeg)
	if err != nil || st != domain.NeedUrgent {
		t.Fatalf("toggle: status=%q err=%v", st, err)
	}
	if bc.calls != 0 {
		t.Fatal("empty recipient set must skip the broadcast")
	}
}
