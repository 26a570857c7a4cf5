package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/storage"
)

type fakeAppRepo struct {
	created []*domain.DonationApplication
	byRef   map[string]*domain.DonationApplication
	moved   map[string]domain.ApplicationStatus
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{
		byRef: make(map[string]*domain.DonationApplication),
		moved: make(map[string]domain.ApplicationStatus),
	}
}

func (f *fakeAppRepo) Create(_ context.Context, app *domain.DonationApplication) error {
	app.Status = domain.ApplicationPending
	f.created = append(f.created, app)
	f.byRef[app.Ref] = app
	return nil
}

func (f *fakeAppRepo) ByRef(_ context.Context, ref string) (*domain.DonationApplication, error) {
	if app, ok := f.byRef[ref]; ok {
		return app, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeAppRepo) ByDonor(_ context.Context, _ int64) ([]domain.DonationApplication, error) {
	return nil, nil
}

func (f *fakeAppRepo) PendingByCenter(_ context.Context, _ int64) ([]storage.ApplicationWithDonor, error) {
	return nil, nil
}

func (f *fakeAppRepo) Transition(_ context.Context, ref string, to domain.ApplicationStatus, _ time.Time) error {
	app, ok := f.byRef[ref]
	if !ok {
		return storage.ErrNotFound
	}
	if app.Status != domain.ApplicationPending {
		return storage.ErrInvalidTransition
	}
	app.Status = to
	f.moved[ref] = to
	return nil
}

type fakeRecorder struct {
	recorded map[int64]*time.Time
}

func (f *fakeRecorder) SetLastDonation(_ context.Context, userID int64, last *time.Time) error {
	if f.recorded == nil {
		f.recorded = make(map[int64]*time.Time)
	}
	f.recorded[userID] = last
	return nil
}

func eligibleDonor() *domain.User {
	bt := domain.BloodOPos
	return &domain.User{ID: 5, TelegramID: 500, BloodType: &bt}
}

func TestApplyRejectsIneligibleDonor(t *testing.T) {
	svc := NewApplicationService(newFakeAppRepo(), &fakeRecorder{}, ApplicationConfig{})

	donor := eligibleDonor()
	recent := time.Now().AddDate(0, 0, -10)
	donor.LastDonationDate = &recent

	if _, err := svc.Apply(context.Background(), donor, 1); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestApplyRejectsIncompleteProfile(t *testing.T) {
	svc := NewApplicationService(newFakeAppRepo(), &fakeRecorder{}, ApplicationConfig{})

	donor := &domain.User{ID: 5}
	if _, err := svc.Apply(context.Background(), donor, 1); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestApplyCreatesPendingWithRef(t *testing.T) {
	repo := newFakeAppRepo()
	svc := NewApplicationService(repo, &fakeRecorder{}, ApplicationConfig{})

	app, err := svc.Apply(context.Background(), eligibleDonor(), 3)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Ref == "" {
		t.Fatal("application must carry a reference code")
	}
	if app.Status != domain.ApplicationPending {
		t.Fatalf("status = %q, want pending", app.Status)
	}
	if app.CenterID != 3 || app.DonorID != 5 {
		t.Fatalf("wrong binding: %+v", app)
	}
}

func TestApproveRecordsDonation(t *testing.T) {
	repo := newFakeAppRepo()
	rec := &fakeRecorder{}
	svc := NewApplicationService(repo, rec, ApplicationConfig{})

	app, err := svc.Apply(context.Background(), eligibleDonor(), 3)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := svc.Approve(context.Background(), 3, app.Ref); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if repo.moved[app.Ref] != domain.ApplicationCompleted {
		t.Fatalf("status = %q, want completed", repo.moved[app.Ref])
	}
	if rec.recorded[5] == nil {
		t.Fatal("approval must record the donor's donation date")
	}
}

func TestApproveWrongCenter(t *testing.T) {
	repo := newFakeAppRepo()
	svc := NewApplicationService(repo, &fakeRecorder{}, ApplicationConfig{})

	app, _ := svc.Apply(context.Background(), eligibleDonor(), 3)
	if err := svc.Approve(context.Background(), 9, app.Ref); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestCancelOnlyOwnPending(t *testing.T) {
	repo := newFakeAppRepo()
	svc := NewApplicationService(repo, &fakeRecorder{}, ApplicationConfig{})

	donor := eligibleDonor()
	app, _ := svc.Apply(context.Background(), donor, 3)

	stranger := &domain.User{ID: 77}
	if err := svc.Cancel(context.Background(), stranger, app.Ref); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := svc.Cancel(context.Background(), donor, app.Ref); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := svc.Cancel(context.Background(), donor, app.Ref); !errors.Is(err, storage.ErrInvalidTransition) {
		t.Fatalf("second cancel must fail with ErrInvalidTransition, got %v", err)
	}
}
