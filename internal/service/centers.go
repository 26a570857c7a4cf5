package service

import (
	"context"
	"errors"
	"time"

	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/internal/auth"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/session"
	"github.com/bloodlink/bloodbot/internal/storage"
	"log/slog"
)

// CenterRepo is the slice of the center store the center service needs.
type CenterRepo interface {
	Create(ctx context.Context, c *domain.MedicalCenter) error
	ByID(ctx context.Context, id int64) (*domain.MedicalCenter, error)
	ByLogin(ctx context.Context, login string) (*domain.MedicalCenter, error)
	List(ctx context.Context) ([]domain.MedicalCenter, error)
	UpdateField(ctx context.Context, id int64, field, value string) error
	UpdateLocation(ctx context.Context, id int64, lat, lon float64) error
}

// StaffBinder attaches a Telegram user to a center.
type StaffBinder interface {
	BindStaff(ctx context.Context, userID, centerID int64) error
}

// StatsRepo supplies the numbers for the staff statistics screen.
type StatsRepo interface {
	Stats(ctx context.Context, cutoff time.Time) (*storage.DonorStats, error)
}

// PendingCounter counts open applications of a center.
type PendingCounter interface {
	CountPendingByCenter(ctx context.Context, centerID int64) (int, error)
}

// RecentRequests lists the newest legacy donation requests.
type RecentRequests interface {
	Recent(ctx context.Context, limit int) ([]domain.DonationRequest, error)
}

// CenterConfig carries the staff-side tunables.
type CenterConfig struct {
	StaffAccessCode      string
	DonationIntervalDays int
}

// CenterService covers staff authentication, center registration,
// profile editing, and statistics.
type CenterService struct {
	centers  CenterRepo
	users    StaffBinder
	stats    StatsRepo
	apps     PendingCounter
	requests RecentRequests
	cfg      CenterConfig
	now      func() time.Time
}

func NewCenterService(centers CenterRepo, users StaffBinder, stats StatsRepo, apps PendingCounter, requests RecentRequests, cfg CenterConfig) *CenterService {
	if cfg.DonationIntervalDays <= 0 {
		cfg.DonationIntervalDays = domain.DefaultDonationIntervalDays
	}
	return &CenterService{
		centers:  centers,
		users:    users,
		stats:    stats,
		apps:     apps,
		requests: requests,
		cfg:      cfg,
		now:      time.Now,
	}
}

// VerifyAccessCode gates the whole staff area.
func (s *CenterService) VerifyAccessCode(code string) error {
	if !auth.ConstantTimeEqual(code, s.cfg.StaffAccessCode) {
		return ErrBadAccessCode
	}
	return nil
}

// Register creates a center from a finished staff draft and binds the
// registering user to it.
func (s *CenterService) Register(ctx context.Context, userID int64, draft *session.CenterDraft, password string) (*domain.MedicalCenter, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	center := &domain.MedicalCenter{
		Name:         draft.Name,
		City:         draft.City,
		Address:      draft.Address,
		Latitude:     draft.Latitude,
		Longitude:    draft.Longitude,
		Login:        draft.Login,
		PasswordHash: hash,
	}
	if err := s.centers.Create(ctx, center); err != nil {
		return nil, err
	}
	if err := s.users.BindStaff(ctx, userID, center.ID); err != nil {
		return nil, err
	}
	logger.SVCCenters.Info("center registered",
		slog.String("event", "center.registered"),
		slog.Int64("center_id", center.ID),
		slog.String("city", center.City),
	)
	return center, nil
}

// Login authenticates staff credentials and binds the user to the center.
// Unknown login and wrong password are indistinguishable to the caller.
func (s *CenterService) Login(ctx context.Context, userID int64, login, password string) (*domain.MedicalCenter, error) {
	center, err := s.centers.ByLogin(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPassword(center.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}
	if err := s.users.BindStaff(ctx, userID, center.ID); err != nil {
		return nil, err
	}
	logger.SVCCenters.Info("staff logged in",
		slog.String("event", "center.login"),
		slog.Int64("center_id", center.ID),
	)
	return center, nil
}

// ByID loads one center.
func (s *CenterService) ByID(ctx context.Context, id int64) (*domain.MedicalCenter, error) {
	return s.centers.ByID(ctx, id)
}

// List returns all registered centers.
func (s *CenterService) List(ctx context.Context) ([]domain.MedicalCenter, error) {
	return s.centers.List(ctx)
}

// UpdateField edits one text attribute of the center profile.
func (s *CenterService) UpdateField(ctx context.Context, centerID int64, field, value string) error {
	return s.centers.UpdateField(ctx, centerID, field, value)
}

// UpdateLocation moves the center pin.
func (s *CenterService) UpdateLocation(ctx context.Context, centerID int64, lat, lon float64) error {
	return s.centers.UpdateLocation(ctx, centerID, lat, lon)
}

// Statistics is the staff statistics screen payload.
type Statistics struct {
	Donors         *storage.DonorStats
	PendingCount   int
	RecentRequests []domain.DonationRequest
}

// Statistics aggregates the donor base, the center's pending
// applications, and the latest dated requests.
func (s *CenterService) Statistics(ctx context.Context, centerID int64) (*Statistics, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.DonationIntervalDays)
	donorStats, err := s.stats.Stats(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	pending, err := s.apps.CountPendingByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.requests.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &Statistics{
		Donors:         donorStats,
		PendingCount:   pending,
		RecentRequests: recent,
	}, nil
}
