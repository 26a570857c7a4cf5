package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/geo"
	"github.com/bloodlink/bloodbot/internal/notify"
	"log/slog"
)

// NeedRepo is the slice of the need store the toggle uses.
type NeedRepo interface {
	Get(ctx context.Context, centerID int64, bt domain.BloodType) (domain.NeedStatus, error)
	Upsert(ctx context.Context, centerID int64, bt domain.BloodType, status domain.NeedStatus, at time.Time) error
	ByCenter(ctx context.Context, centerID int64) (map[domain.BloodType]domain.NeedStatus, error)
}

// DonorLister selects broadcast recipients.
type DonorLister interface {
	EligibleDonorsByType(ctx context.Context, bt domain.BloodType, cutoff time.Time) ([]domain.User, error)
}

// Broadcaster fans one alert out to many chats.
type Broadcaster interface {
	Broadcast(ctx context.Context, chatIDs []int64, text string) (notify.Result, error)
}

// NeedConfig carries the broadcast tunables.
type NeedConfig struct {
	SearchRadiusKM       float64
	DonationIntervalDays int

	// ComposeAlert renders the urgent notification text. A nil composer
	// falls back to a plain English message.
	ComposeAlert func(center *domain.MedicalCenter, bt domain.BloodType) string
}

// NeedService drives the per-center traffic-light board.
type NeedService struct {
	needs       NeedRepo
	donors      DonorLister
	broadcaster Broadcaster
	cfg         NeedConfig
	now         func() time.Time
}

func NewNeedService(needs NeedRepo, donors DonorLister, broadcaster Broadcaster, cfg NeedConfig) *NeedService {
	if cfg.DonationIntervalDays <= 0 {
		cfg.DonationIntervalDays = domain.DefaultDonationIntervalDays
	}
	if cfg.SearchRadiusKM <= 0 {
		cfg.SearchRadiusKM = 50
	}
	return &NeedService{
		needs:       needs,
		donors:      donors,
		broadcaster: broadcaster,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Board returns the center's full traffic-light state.
func (s *NeedService) Board(ctx context.Context, centerID int64) (map[domain.BloodType]domain.NeedStatus, error) {
	return s.needs.ByCenter(ctx, centerID)
}

// Toggle advances one cell of the board: ok -> need -> urgent -> ok.
// Entering urgent, and only entering urgent, alerts eligible donors of
// that blood type in or near the center's city.
func (s *NeedService) Toggle(ctx context.Context, center *domain.MedicalCenter, bt domain.BloodType) (domain.NeedStatus, error) {
	current, err := s.needs.Get(ctx, center.ID, bt)
	if err != nil {
		return "", err
	}
	next := current.Next()
	if err := s.needs.Upsert(ctx, center.ID, bt, next, s.now()); err != nil {
		return "", err
	}
	logger.SVCNeeds.Info("need toggled",
		slog.String("event", "need.toggle"),
		slog.Int64("center_id", center.ID),
		slog.String("blood_type", string(bt)),
		slog.String("need_status", string(next)),
	)

	// The toggle is already persisted; the alert is best effort.
	if next == domain.NeedUrgent {
		if err := s.alertDonors(ctx, center, bt); err != nil {
			logger.SVCNeeds.Error("urgent alert failed",
				slog.String("event", "need.alert"),
				slog.Int64("center_id", center.ID),
				slog.String("blood_type", string(bt)),
				slog.String("err", err.Error()),
			)
		}
	}
	return next, nil
}

func (s *NeedService) alertDonors(ctx context.Context, center *domain.MedicalCenter, bt domain.BloodType) error {
	cutoff := s.now().AddDate(0, 0, -s.cfg.DonationIntervalDays)
	donors, err := s.donors.EligibleDonorsByType(ctx, bt, cutoff)
	if err != nil {
		return err
	}
	recipients := selectRecipients(donors, center, s.cfg.SearchRadiusKM)
	if len(recipients) == 0 {
		logger.SVCNeeds.Info("no donors to alert",
			slog.String("event", "need.alert"),
			slog.Int64("center_id", center.ID),
			slog.String("blood_type", string(bt)),
		)
		return nil
	}

	text := s.composeAlert(center, bt)
	res, err := s.broadcaster.Broadcast(ctx, recipients, text)
	if err != nil {
		return err
	}
	logger.SVCNeeds.Info("urgent alert sent",
		slog.String("event", "need.alert"),
		slog.Int64("center_id", center.ID),
		slog.String("blood_type", string(bt)),
		slog.String("batch_id", res.BatchID),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	return nil
}

func (s *NeedService) composeAlert(center *domain.MedicalCenter, bt domain.BloodType) string {
	if s.cfg.ComposeAlert != nil {
		return s.cfg.ComposeAlert(center, bt)
	}
	return fmt.Sprintf("Urgent: %s blood needed at %s (%s, %s).",
		bt, center.Name, center.City, center.Address)
}

// selectRecipients keeps donors in the center's city or within radius.
// A donor with neither a matching city nor known coordinates is skipped.
func selectRecipients(donors []domain.User, center *domain.MedicalCenter, radiusKM float64) []int64 {
	var out []int64
	for _, d := range donors {
		if d.City != nil && strings.EqualFold(*d.City, center.City) {
			out = append(out, d.TelegramID)
			continue
		}
		if d.Latitude != nil && d.Longitude != nil &&
			center.Latitude != nil && center.Longitude != nil {
			dist := geo.DistanceKM(*d.Latitude, *d.Longitude, *center.Latitude, *center.Longitude)
			if dist <= radiusKM {
				out = append(out, d.TelegramID)
			}
		}
	}
	return out
}
