package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/internal/domain"
)

// CenterStore persists medical centers and their staff credentials.
type CenterStore struct {
	db *sqlx.DB
}

func NewCenterStore(db *sqlx.DB) *CenterStore {
	return &CenterStore{db: db}
}

const centerColumns = `id, name, city, address, latitude, longitude, login, password_hash, created_at`

// Create inserts a new center. Login uniqueness is enforced by the schema.
func (s *CenterStore) Create(ctx context.Context, c *domain.MedicalCenter) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO medical_centers (name, city, address, latitude, longitude, login, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		c.Name, c.City, c.Address, c.Latitude, c.Longitude, c.Login, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateLogin
	}
	return err
}

// ByID loads a center by id.
func (s *CenterStore) ByID(ctx context.Context, id int64) (*domain.MedicalCenter, error) {
	var c domain.MedicalCenter
	err := s.db.GetContext(ctx, &c,
		`SELECT `+centerColumns+` FROM medical_centers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ByLogin loads a center by its staff login.
func (s *CenterStore) ByLogin(ctx context.Context, login string) (*domain.MedicalCenter, error) {
	var c domain.MedicalCenter
	err := s.db.GetContext(ctx, &c,
		`SELECT `+centerColumns+` FROM medical_centers WHERE login = $1`, login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all centers ordered by name.
func (s *CenterStore) List(ctx context.Context) ([]domain.MedicalCenter, error) {
	var centers []domain.MedicalCenter
	err := s.db.SelectContext(ctx, &centers,
		`SELECT `+centerColumns+` FROM medical_centers ORDER BY name`)
	return centers, err
}

// UpdateField changes a single text attribute of the center profile.
func (s *CenterStore) UpdateField(ctx context.Context, id int64, field, value string) error {
	switch field {
	case "name", "city", "address":
	default:
		return fmt.Errorf("storage: center field %q is not editable", field)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE medical_centers SET `+field+` = $2 WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateLocation changes the center coordinates.
func (s *CenterStore) UpdateLocation(ctx context.Context, id int64, lat, lon float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE medical_centers SET latitude = $2, longitude = $3 WHERE id = $1`,
		id, lat, lon)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
