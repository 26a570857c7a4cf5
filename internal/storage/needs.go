package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/internal/domain"
)

// NeedStore persists the per-center blood-need traffic lights.
type NeedStore struct {
	db *sqlx.DB
}

func NewNeedStore(db *sqlx.DB) *NeedStore {
	return &NeedStore{db: db}
}

// Upsert writes the status of one cell of the center's board.
func (s *NeedStore) Upsert(ctx context.Context, centerID int64, bt domain.BloodType, status domain.NeedStatus, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blood_needs (center_id, blood_type, status, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (center_id, blood_type) DO UPDATE
		SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		centerID, bt, status, at)
	return err
}

// Get returns the status of one cell; an unset cell reads as ok.
func (s *NeedStore) Get(ctx context.Context, centerID int64, bt domain.BloodType) (domain.NeedStatus, error) {
	var status domain.NeedStatus
	err := s.db.GetContext(ctx, &status,
		`SELECT status FROM blood_needs WHERE center_id = $1 AND blood_type = $2`,
		centerID, bt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NeedOK, nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// ByCenter loads the center's full board.
func (s *NeedStore) ByCenter(ctx context.Context, centerID int64) (map[domain.BloodType]domain.NeedStatus, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT blood_type, status FROM blood_needs WHERE center_id = $1`, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	board := make(map[domain.BloodType]domain.NeedStatus, len(domain.BloodTypes))
	for _, bt := range domain.BloodTypes {
		board[bt] = domain.NeedOK
	}
	for rows.Next() {
		var (
			bt     domain.BloodType
			status domain.NeedStatus
		)
		if err := rows.Scan(&bt, &status); err != nil {
			return nil, err
		}
		board[bt] = status
	}
	return board, rows.Err()
}

// NeedWithCenter is one active need joined with its center profile,
// shaped for the donor matching engine.
type NeedWithCenter struct {
	Center domain.MedicalCenter
	Status domain.NeedStatus
}

// ActiveByType lists centers with open demand for the blood type.
func (s *NeedStore) ActiveByType(ctx context.Context, bt domain.BloodType) ([]NeedWithCenter, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT c.id, c.name, c.city, c.address, c.latitude, c.longitude,
		       c.login, c.password_hash, c.created_at, n.status
		FROM blood_needs n
		JOIN medical_centers c ON c.id = n.center_id
		WHERE n.blood_type = $1 AND n.status IN ($2, $3)
		ORDER BY c.id`,
		bt, domain.NeedNeed, domain.NeedUrgent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []NeedWithCenter
	for rows.Next() {
		var nc NeedWithCenter
		c := &nc.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.Address, &c.Latitude, &c.Longitude,
			&c.Login, &c.PasswordHash, &c.CreatedAt, &nc.Status); err != nil {
			return nil, err
		}
		res = append(res, nc)
	}
	return res, rows.Err()
}
