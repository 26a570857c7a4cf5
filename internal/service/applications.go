package service

import (
	"context"
	"time"

	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/ids"
	"github.com/bloodlink/bloodbot/internal/storage"
	"log/slog"
)

// ApplicationRepo is the slice of the application store the service needs.
type ApplicationRepo interface {
	Create(ctx context.Context, app *domain.DonationApplication) error
	ByRef(ctx context.Context, ref string) (*domain.DonationApplication, error)
	ByDonor(ctx context.Context, donorID int64) ([]domain.DonationApplication, error)
	PendingByCenter(ctx context.Context, centerID int64) ([]storage.ApplicationWithDonor, error)
	Transition(ctx context.Context, ref string, to domain.ApplicationStatus, at time.Time) error
}

// DonationRecorder updates the donor's last donation date after a
// completed application.
type DonationRecorder interface {
	SetLastDonation(ctx context.Context, userID int64, last *time.Time) error
}

// ApplicationConfig carries the donor-side gate settings.
type ApplicationConfig struct {
	DonationIntervalDays int
}

// ApplicationService manages the donation application lifecycle.
type ApplicationService struct {
	apps  ApplicationRepo
	users DonationRecorder
	cfg   ApplicationConfig
	now   func() time.Time
}

func NewApplicationService(apps ApplicationRepo, users DonationRecorder, cfg ApplicationConfig) *ApplicationService {
	if cfg.DonationIntervalDays <= 0 {
		cfg.DonationIntervalDays = domain.DefaultDonationIntervalDays
	}
	return &ApplicationService{apps: apps, users: users, cfg: cfg, now: time.Now}
}

// Apply opens a pending application for the donor at the center.
func (s *ApplicationService) Apply(ctx context.Context, donor *domain.User, centerID int64) (*domain.DonationApplication, error) {
	if donor.BloodType == nil {
		return nil, ErrProfileIncomplete
	}
	if !domain.Eligible(donor.LastDonationDate, s.now(), s.cfg.DonationIntervalDays) {
		return nil, ErrNotEligible
	}
	app := &domain.DonationApplication{
		Ref:       ids.New(),
		DonorID:   donor.ID,
		CenterID:  centerID,
		BloodType: *donor.BloodType,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	logger.SVCApplications.Info("application opened",
		slog.String("event", "application.opened"),
		slog.String("application_ref", app.Ref),
		slog.Int64("donor_id", donor.ID),
		slog.Int64("center_id", centerID),
	)
	return app, nil
}

// Cancel withdraws the donor's own pending application.
func (s *ApplicationService) Cancel(ctx context.Context, donor *domain.User, ref string) error {
	app, err := s.apps.ByRef(ctx, ref)
	if err != nil {
		return err
	}
	if app.DonorID != donor.ID {
		return ErrNotOwner
	}
	if err := s.apps.Transition(ctx, ref, domain.ApplicationCancelled, s.now()); err != nil {
		return err
	}
	s.logDecision(app, domain.ApplicationCancelled)
	return nil
}

// Approve marks a pending application of the center as completed and
// records the donation date on the donor's profile.
func (s *ApplicationService) Approve(ctx context.Context, centerID int64, ref string) error {
	app, err := s.requireCenterApp(ctx, centerID, ref)
	if err != nil {
		return err
	}
	decidedAt := s.now()
	if err := s.apps.Transition(ctx, ref, domain.ApplicationCompleted, decidedAt); err != nil {
		return err
	}
	if err := s.users.SetLastDonation(ctx, app.DonorID, &decidedAt); err != nil {
		return err
	}
	s.logDecision(app, domain.ApplicationCompleted)
	return nil
}

// Reject declines a pending application of the center.
func (s *ApplicationService) Reject(ctx context.Context, centerID int64, ref string) error {
	app, err := s.requireCenterApp(ctx, centerID, ref)
	if err != nil {
		return err
	}
	if err := s.apps.Transition(ctx, ref, domain.ApplicationRejected, s.now()); err != nil {
		return err
	}
	s.logDecision(app, domain.ApplicationRejected)
	return nil
}

// ForDonor lists all of the donor's applications, newest first.
func (s *ApplicationService) ForDonor(ctx context.Context, donorID int64) ([]domain.DonationApplication, error) {
	return s.apps.ByDonor(ctx, donorID)
}

// PendingForCenter lists the center's triage queue.
func (s *ApplicationService) PendingForCenter(ctx context.Context, centerID int64) ([]storage.ApplicationWithDonor, error) {
	return s.apps.PendingByCenter(ctx, centerID)
}

func (s *ApplicationService) requireCenterApp(ctx context.Context, centerID int64, ref string) (*domain.DonationApplication, error) {
	app, err := s.apps.ByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if app.CenterID != centerID {
		return nil, ErrNotOwner
	}
	return app, nil
}

func (s *ApplicationService) logDecision(app *domain.DonationApplication, to domain.ApplicationStatus) {
	logger.SVCApplications.Info("application resolved",
		slog.String("event", "application.resolved"),
		slog.String("application_ref", app.Ref),
		slog.Int64("donor_id", app.DonorID),
		slog.Int64("center_id", app.CenterID),
		slog.String("status", string(to)),
	)
}
