package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/internal/domain"
	"log/slog"
)

// RequestRepo persists legacy dated donation requests.
type RequestRepo interface {
	Create(ctx context.Context, r *domain.DonationRequest) error
	Recent(ctx context.Context, limit int) ([]domain.DonationRequest, error)
}

// RequestConfig carries the request-broadcast tunables.
type RequestConfig struct {
	SearchRadiusKM       float64
	DonationIntervalDays int

	// ComposeRequest renders the request notification text.
	ComposeRequest func(center *domain.MedicalCenter, r *domain.DonationRequest) string
}

// RequestService handles the dated donation request flow kept for
// backward compatibility with the pre-traffic-light workflow.
type RequestService struct {
	requests    RequestRepo
	donors      DonorLister
	broadcaster Broadcaster
	cfg         RequestConfig
	now         func() time.Time
}

func NewRequestService(requests RequestRepo, donors DonorLister, broadcaster Broadcaster, cfg RequestConfig) *RequestService {
	if cfg.DonationIntervalDays <= 0 {
		cfg.DonationIntervalDays = domain.DefaultDonationIntervalDays
	}
	if cfg.SearchRadiusKM <= 0 {
		cfg.SearchRadiusKM = 50
	}
	return &RequestService{
		requests:    requests,
		donors:      donors,
		broadcaster: broadcaster,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Create stores the dated request and notifies eligible donors of that
// blood type in or near the center's city.
func (s *RequestService) Create(ctx context.Context, center *domain.MedicalCenter, authorID int64, bt domain.BloodType, date time.Time) (*domain.DonationRequest, error) {
	req := &domain.DonationRequest{
		CenterID:    center.ID,
		AuthorID:    authorID,
		BloodType:   bt,
		RequestDate: date,
		Description: fmt.Sprintf("%s blood needed at %s on %s", bt, center.Name, domain.FormatDate(&date)),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	logger.SVCRequests.Info("request created",
		slog.String("event", "request.created"),
		slog.Int64("center_id", center.ID),
		slog.String("blood_type", string(bt)),
	)

	cutoff := s.now().AddDate(0, 0, -s.cfg.DonationIntervalDays)
	donors, err := s.donors.EligibleDonorsByType(ctx, bt, cutoff)
	if err != nil {
		return nil, err
	}
	recipients := selectRecipients(donors, center, s.cfg.SearchRadiusKM)
	if len(recipients) == 0 {
		return req, nil
	}

	text := req.Description
	if s.cfg.ComposeRequest != nil {
		text = s.cfg.ComposeRequest(center, req)
	}
	res, err := s.broadcaster.Broadcast(ctx, recipients, text)
	if err != nil {
		return nil, err
	}
	logger.SVCRequests.Info("request broadcast",
		slog.String("event", "request.broadcast"),
		slog.Int64("center_id", center.ID),
		slog.String("batch_id", res.BatchID),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	return req, nil
}
