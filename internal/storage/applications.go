package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/internal/domain"
)

// ApplicationStore persists donation applications with guarded
// status transitions.
type ApplicationStore struct {
	db *sqlx.DB
}

func NewApplicationStore(db *sqlx.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationColumns = `id, ref, donor_id, center_id, blood_type, status, created_at, updated_at`

// Create opens a pending application. A partial unique index keeps one
// open application per donor and center.
func (s *ApplicationStore) Create(ctx context.Context, app *domain.DonationApplication) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO donation_applications (ref, donor_id, center_id, blood_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		app.Ref, app.DonorID, app.CenterID, app.BloodType, domain.ApplicationPending,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicatePending
	}
	if err != nil {
		return err
	}
	app.Status = domain.ApplicationPending
	return nil
}

// ByRef loads an application by its public reference.
func (s *ApplicationStore) ByRef(ctx context.Context, ref string) (*domain.DonationApplication, error) {
	var app domain.DonationApplication
	err := s.db.GetContext(ctx, &app,
		`SELECT `+applicationColumns+` FROM donation_applications WHERE ref = $1`, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ByDonor lists all of the donor's applications, newest first.
func (s *ApplicationStore) ByDonor(ctx context.Context, donorID int64) ([]domain.DonationApplication, error) {
	var apps []domain.DonationApplication
	err := s.db.SelectContext(ctx, &apps, `
		SELECT `+applicationColumns+`
		FROM donation_applications
		WHERE donor_id = $1
		ORDER BY created_at DESC`,
		donorID)
	return apps, err
}

// ApplicationWithDonor is a pending application joined with donor contact
// fields for the staff triage screen.
type ApplicationWithDonor struct {
	domain.DonationApplication
	DonorUsername  string `db:"donor_username"`
	DonorFirstName string `db:"donor_first_name"`
	DonorLastName  string `db:"donor_last_name"`
}

// PendingByCenter lists the center's open applications, oldest first.
func (s *ApplicationStore) PendingByCenter(ctx context.Context, centerID int64) ([]ApplicationWithDonor, error) {
	var apps []ApplicationWithDonor
	err := s.db.SelectContext(ctx, &apps, `
		SELECT a.id, a.ref, a.donor_id, a.center_id, a.blood_type, a.status,
		       a.created_at, a.updated_at,
		       u.username AS donor_username,
		       u.first_name AS donor_first_name,
		       u.last_name AS donor_last_name
		FROM donation_applications a
		JOIN users u ON u.id = a.donor_id
		WHERE a.center_id = $1 AND a.status = $2
		ORDER BY a.created_at`,
		centerID, domain.ApplicationPending)
	return apps, err
}

// CountPendingByCenter returns the open-application count for statistics.
func (s *ApplicationStore) CountPendingByCenter(ctx context.Context, centerID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM donation_applications
		WHERE center_id = $1 AND status = $2`,
		centerID, domain.ApplicationPending)
	return n, err
}

// Transition moves an application out of pending. The WHERE clause is the
// guard: if another actor already resolved it, zero rows match and the
// caller gets ErrInvalidTransition instead of a silent double-update.
func (s *ApplicationStore) Transition(ctx context.Context, ref string, to domain.ApplicationStatus, at time.Time) error {
	if !domain.CanTransition(domain.ApplicationPending, to) {
		return ErrInvalidTransition
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE donation_applications
		SET status = $2, updated_at = $3
		WHERE ref = $1 AND status = $4`,
		ref, to, at, domain.ApplicationPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, lookupErr := s.ByRef(ctx, ref); lookupErr != nil {
			return lookupErr
		}
		return ErrInvalidTransition
	}
	return nil
}
