package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodlink/bloodbot/internal/auth"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"
)

type fakeCenterRepo struct {
	byLogin map[string]*domain.MedicalCenter
	nextID  int64
}

func newFakeCenterRepo() *fakeCenterRepo {
	return &fakeCenterRepo{byLogin: make(map[string]*domain.MedicalCenter)}
}

func (f *fakeCenterRepo) Create(_ context.Context, c *domain.MedicalCenter) error {
	if _, ok := f.byLogin[c.Login]; ok {
		return storage.ErrDuplicateLogin
	}
	f.nextID++
	c.ID = f.nextID
	f.byLogin[c.Login] = c
	return nil
}

func (f *fakeCenterRepo) ByID(_ context.Context, id int64) (*domain.MedicalCenter, error) {
	for _, c := range f.byLogin {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCenterRepo) ByLogin(_ context.Context, login string) (*domain.MedicalCenter, error) {
	if c, ok := f.byLogin[login]; ok {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCenterRepo) List(_ context.Context) ([]domain.MedicalCenter, error) { return nil, nil }

func (f *fakeCenterRepo) UpdateField(_ context.Context, _ int64, _, _ string) error { return nil }

func (f *fakeCenterRepo) UpdateLocation(_ context.Context, _ int64, _, _ float64) error { return nil }

type fakeBinder struct {
	bound map[int64]int64
}

func (f *fakeBinder) BindStaff(_ context.Context, userID, centerID int64) error {
	if f.bound == nil {
		f.bound = make(map[int64]int64)
	}
	f.bound[userID] = centerID
	return nil
}

type fakeStats struct{}

func (fakeStats) Stats(_ context.Context, _ time.Time) (*storage.DonorStats, error) {
	return &storage.DonorStats{Total: 10, Eligible: 7, ByType: map[domain.BloodType]int{domain.BloodOPos: 4}}, nil
}

type fakeCounter struct{}

func (fakeCounter) CountPendingByCenter(_ context.Context, _ int64) (int, error) { return 3, nil }

type fakeRecent struct{}

func (fakeRecent) Recent(_ context.Context, limit int) ([]domain.DonationRequest, error) {
	return make([]domain.DonationRequest, limit), nil
}

func newCenterService(repo *fakeCenterRepo, binder *fakeBinder) *CenterService {
	return NewCenterService(repo, binder, fakeStats{}, fakeCounter{}, fakeRecent{},
		CenterConfig{StaffAccessCode: "med-2024"})
}

func TestVerifyAccessCode(t *testing.T) {
	svc := newCenterService(newFakeCenterRepo(), &fakeBinder{})
	if err := svc.VerifyAccessCode("med-2024"); err != nil {
		t.Fatalf("correct code rejected: %v", err)
	}
	if err := svc.VerifyAccessCode("guess"); !errors.Is(err, ErrBadAccessCode) {
		t.Fatalf("expected ErrBadAccessCode, got %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeCenterRepo()
	binder := &fakeBinder{}
	svc := newCenterService(repo, binder)
	ctx := context.Background()

	draft := &session.CenterDraft{
		Name:    "City Blood Center",
		City:    "Almaty",
		Address: "Abay Ave 1",
		Login:   "city-center",
	}
	center, err := svc.Register(ctx, 10, draft, "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if center.PasswordHash == "hunter2" {
		t.Fatal("password must be stored hashed")
	}
	if err := auth.VerifyPassword(center.PasswordHash, "hunter2"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if binder.bound[10] != center.ID {
		t.Fatal("registering user must be bound to the center")
	}

	got, err := svc.Login(ctx, 11, "city-center", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != center.ID || binder.bound[11] != center.ID {
		t.Fatal("login must bind the user to the center")
	}

	if _, err := svc.Login(ctx, 12, "city-center", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: expected ErrBadCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, 12, "nobody", "hunter2"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown login: expected ErrBadCredentials, got %v", err)
	}
}

func TestStatistics(t *testing.T) {
	svc := newCenterService(newFakeCenterRepo(), &fakeBinder{})
	stats, err := svc.Statistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Donors.Total != 10 || stats.Donors.Eligible != 7 {
		t.Fatalf("donor stats wrong: %+v", stats.Donors)
	}
	if stats.PendingCount != 3 {
		t.Fatalf("pending = %d, want 3", stats.PendingCount)
	}
	if len(stats.RecentRequests) != 5 {
		t.Fatalf("recent requests = %d, want 5", len(stats.RecentRequests))
	}
}
