package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/internal/domain"
)

// RequestStore persists staff-authored dated donation requests.
type RequestStore struct {
	db *sqlx.DB
}

func NewRequestStore(db *sqlx.DB) *RequestStore {
	return &RequestStore{db: db}
}

// Create inserts a new dated request.
func (s *RequestStore) Create(ctx context.Context, r *domain.DonationRequest) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO donation_requests (center_id, author_id, blood_type, request_date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		r.CenterID, r.AuthorID, r.BloodType, r.RequestDate, r.Description,
	).Scan(&r.ID, &r.CreatedAt)
}

// Recent returns the newest requests across all centers.
func (s *RequestStore) Recent(ctx context.Context, limit int) ([]domain.DonationRequest, error) {
	var reqs []domain.DonationRequest
	err := s.db.SelectContext(ctx, &reqs, `
		SELECT id, center_id, author_id, blood_type, request_date, description, created_at
		FROM donation_requests
		ORDER BY created_at DESC
		LIMIT $1`,
		limit)
	return reqs, err
}
