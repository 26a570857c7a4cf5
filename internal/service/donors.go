package service

import (
	"context"
	"time"

	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/match"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"
	"log/slog"
)

// UserRepo is the slice of the user store the donor service needs.
type UserRepo interface {
	Upsert(ctx context.Context, u *domain.User) error
	ByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	SaveDonorProfile(ctx context.Context, u *domain.User) error
	SetBloodType(ctx context.Context, userID int64, bt domain.BloodType) error
	SetLocation(ctx context.Context, userID int64, city string, lat, lon *float64) error
	SetLastDonation(ctx context.Context, userID int64, last *time.Time) error
	SetCertificate(ctx context.Context, userID int64, fileID string, uploadedAt time.Time) error
	ClearCertificate(ctx context.Context, userID int64) error
}

// ActiveNeedRepo lists open demand for a blood type.
type ActiveNeedRepo interface {
	ActiveByType(ctx context.Context, bt domain.BloodType) ([]storage.NeedWithCenter, error)
}

// DonorConfig carries the tunables of the donor use-cases.
type DonorConfig struct {
	SearchRadiusKM       float64
	MatchLimit           int
	DonationIntervalDays int
	CertificateTTLDays   int
}

// DonorService covers onboarding, profile updates, matching, and
// certificate handling for donors.
type DonorService struct {
	users UserRepo
	needs ActiveNeedRepo
	cfg   DonorConfig
	now   func() time.Time
}

func NewDonorService(users UserRepo, needs ActiveNeedRepo, cfg DonorConfig) *DonorService {
	if cfg.DonationIntervalDays <= 0 {
		cfg.DonationIntervalDays = domain.DefaultDonationIntervalDays
	}
	if cfg.CertificateTTLDays <= 0 {
		cfg.CertificateTTLDays = domain.DefaultCertificateTTLDays
	}
	return &DonorService{users: users, needs: needs, cfg: cfg, now: time.Now}
}

// EnsureUser records the Telegram identity and returns the full profile.
func (s *DonorService) EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	u := &domain.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return s.users.ByTelegramID(ctx, telegramID)
}

// Profile loads the stored profile for a Telegram account.
func (s *DonorService) Profile(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.ByTelegramID(ctx, telegramID)
}

// CompleteOnboarding persists a finished donor draft.
func (s *DonorService) CompleteOnboarding(ctx context.Context, u *domain.User, draft *session.DonorDraft) error {
	u.Role = domain.RoleDonor
	u.BloodType = &draft.BloodType
	u.City = &draft.City
	u.Latitude = draft.Latitude
	u.Longitude = draft.Longitude
	u.LastDonationDate = draft.LastDonation
	u.Registered = true

	if err := s.users.SaveDonorProfile(ctx, u); err != nil {
		return err
	}
	logger.SVCDonors.Info("donor registered",
		slog.String("event", "donor.registered"),
		slog.Int64("donor_id", u.ID),
		slog.String("blood_type", string(draft.BloodType)),
	)
	return nil
}

// UpdateBloodType changes the donor's blood group.
func (s *DonorService) UpdateBloodType(ctx context.Context, donorID int64, bt domain.BloodType) error {
	return s.users.SetBloodType(ctx, donorID, bt)
}

// UpdateLocation changes the donor's city and optional coordinates.
func (s *DonorService) UpdateLocation(ctx context.Context, donorID int64, city string, lat, lon *float64) error {
	return s.users.SetLocation(ctx, donorID, city, lat, lon)
}

// UpdateLastDonation changes the donor's last donation date.
func (s *DonorService) UpdateLastDonation(ctx context.Context, donorID int64, last *time.Time) error {
	return s.users.SetLastDonation(ctx, donorID, last)
}

// Eligibility reports whether the donor may donate and the wait in days.
func (s *DonorService) Eligibility(u *domain.User) (bool, int) {
	now := s.now()
	return domain.Eligible(u.LastDonationDate, now, s.cfg.DonationIntervalDays),
		domain.WaitDays(u.LastDonationDate, now, s.cfg.DonationIntervalDays)
}

// FindMatches ranks centers with open demand for the donor's blood type.
func (s *DonorService) FindMatches(ctx context.Context, u *domain.User) ([]match.Match, error) {
	if u.BloodType == nil {
		return nil, ErrProfileIncomplete
	}
	needs, err := s.needs.ActiveByType(ctx, *u.BloodType)
	if err != nil {
		return nil, err
	}
	matches := match.Find(u, needs, match.Options{
		RadiusKM: s.cfg.SearchRadiusKM,
		Limit:    s.cfg.MatchLimit,
	})
	logger.SVCMatch.Debug("matches computed",
		slog.String("event", "match.find"),
		slog.Int64("donor_id", u.ID),
		slog.String("blood_type", string(*u.BloodType)),
		slog.Int("matches", len(matches)),
	)
	return matches, nil
}

// SaveCertificate stores the donor's uploaded certificate photo.
func (s *DonorService) SaveCertificate(ctx context.Context, donorID int64, fileID string) error {
	return s.users.SetCertificate(ctx, donorID, fileID, s.now())
}

// Certificate returns the stored certificate reference. An expired
// certificate is cleared on access and reported as absent.
func (s *DonorService) Certificate(ctx context.Context, u *domain.User) (string, bool, error) {
	if u.CertificateFileID == nil || u.CertificateUploadedAt == nil {
		return "", false, nil
	}
	if domain.CertificateExpired(*u.CertificateUploadedAt, s.now(), s.cfg.CertificateTTLDays) {
		if err := s.users.ClearCertificate(ctx, u.ID); err != nil {
			return "", false, err
		}
		logger.SVCDonors.Info("certificate expired",
			slog.String("event", "donor.certificate_expired"),
			slog.Int64("donor_id", u.ID),
		)
		return "", false, nil
	}
	return *u.CertificateFileID, true, nil
}
