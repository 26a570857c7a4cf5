package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/internal/domain"
)

// UserStore persists Telegram accounts, donor profiles, and certificates.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, telegram_id, username, first_name, last_name, role, center_id,
	blood_type, city, latitude, longitude, last_donation_date,
	certificate_file_id, certificate_uploaded_at, is_registered, created_at`

// Upsert records the Telegram identity on first contact and refreshes
// the profile names on every later /start.
func (s *UserStore) Upsert(ctx context.Context, u *domain.User) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name
		RETURNING id`,
		u.TelegramID, u.Username, u.FirstName, u.LastName, domain.RoleDonor,
	).Scan(&u.ID)
}

// ByTelegramID loads a user by Telegram account id.
func (s *UserStore) ByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ByID loads a user by internal id.
func (s *UserStore) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveDonorProfile finalizes donor onboarding in a single write.
func (s *UserStore) SaveDonorProfile(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET role = $2, center_id = NULL, blood_type = $3, city = $4,
		    latitude = $5, longitude = $6, last_donation_date = $7,
		    is_registered = TRUE
		WHERE id = $1`,
		u.ID, domain.RoleDonor, u.BloodType, u.City,
		u.Latitude, u.Longitude, u.LastDonationDate,
	)
	return err
}

// BindStaff marks the user as staff of the given center.
func (s *UserStore) BindStaff(ctx context.Context, userID, centerID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET role = $2, center_id = $3, is_registered = TRUE
		WHERE id = $1`,
		userID, domain.RoleStaff, centerID,
	)
	return err
}

// SetBloodType updates a donor's blood group.
func (s *UserStore) SetBloodType(ctx context.Context, userID int64, bt domain.BloodType) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET blood_type = $2 WHERE id = $1`, userID, bt)
	return err
}

// SetLocation updates a donor's city and optional coordinates.
func (s *UserStore) SetLocation(ctx context.Context, userID int64, city string, lat, lon *float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET city = $2, latitude = $3, longitude = $4 WHERE id = $1`,
		userID, city, lat, lon)
	return err
}

// SetLastDonation updates the last donation date; nil means never donated.
func (s *UserStore) SetLastDonation(ctx context.Context, userID int64, last *time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_donation_date = $2 WHERE id = $1`, userID, last)
	return err
}

// SetCertificate stores a donor's certificate photo reference.
func (s *UserStore) SetCertificate(ctx context.Context, userID int64, fileID string, uploadedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET certificate_file_id = $2, certificate_uploaded_at = $3
		WHERE id = $1`,
		userID, fileID, uploadedAt)
	return err
}

// ClearCertificate removes an expired certificate.
func (s *UserStore) ClearCertificate(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET certificate_file_id = NULL, certificate_uploaded_at = NULL
		WHERE id = $1`,
		userID)
	return err
}

// EligibleDonorsByType lists registered donors of the blood type who may
// donate again as of the cutoff date.
func (s *UserStore) EligibleDonorsByType(ctx context.Context, bt domain.BloodType, cutoff time.Time) ([]domain.User, error) {
	var donors []domain.User
	err := s.db.SelectContext(ctx, &donors, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1 AND is_registered AND blood_type = $2
		  AND (last_donation_date IS NULL OR last_donation_date <= $3)
		ORDER BY id`,
		domain.RoleDonor, bt, cutoff)
	return donors, err
}

// DonorStats summarizes the donor base for the staff statistics screen.
type DonorStats struct {
	Total    int
	Eligible int
	ByType   map[domain.BloodType]int
}

// Stats counts registered donors, how many are currently eligible, and
// the distribution across blood types.
func (s *UserStore) Stats(ctx context.Context, cutoff time.Time) (*DonorStats, error) {
	stats := &DonorStats{ByType: make(map[domain.BloodType]int)}

	err := s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE last_donation_date IS NULL OR last_donation_date <= $2)
		FROM users
		WHERE role = $1 AND is_registered`,
		domain.RoleDonor, cutoff,
	).Scan(&stats.Total, &stats.Eligible)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT blood_type, COUNT(*)
		FROM users
		WHERE role = $1 AND is_registered AND blood_type IS NOT NULL
		GROUP BY blood_type`,
		domain.RoleDonor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bt domain.BloodType
			n  int
		)
		if err := rows.Scan(&bt, &n); err != nil {
			return nil, err
		}
		stats.ByType[bt] = n
	}
	return stats, rows.Err()
}
