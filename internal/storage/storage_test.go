package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodbot/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestNeedUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewNeedStore(db)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO blood_needs`).
		WithArgs(int64(3), domain.BloodOPos, domain.NeedUrgent, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Upsert(context.Background(), 3, domain.BloodOPos, domain.NeedUrgent, now); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestNeedGetDefaultsToOK(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewNeedStore(db)

	mock.ExpectQuery(`SELECT status FROM blood_needs`).
		WithArgs(int64(3), domain.BloodANeg).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	got, err := store.Get(context.Background(), 3, domain.BloodANeg)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != domain.NeedOK {
		t.Fatalf("unset cell = %q, want ok", got)
	}
}

func TestApplicationTransitionGuard(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewApplicationStore(db)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE donation_applications`).
		WithArgs("REF1", domain.ApplicationCompleted, now, domain.ApplicationPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Transition(context.Background(), "REF1", domain.ApplicationCompleted, now); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestApplicationTransitionAlreadyResolved(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewApplicationStore(db)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE donation_applications`).
		WithArgs("REF2", domain.ApplicationCancelled, now, domain.ApplicationPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	cols := []string{"id", "ref", "donor_id", "center_id", "blood_type", "status", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM donation_applications WHERE ref`).
		WithArgs("REF2").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "REF2", int64(5), int64(3), "O+", "completed", now, now))

	err := store.Transition(context.Background(), "REF2", domain.ApplicationCancelled, now)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplicationTransitionRejectsInvalidTarget(t *testing.T) {
	db, _ := newMockDB(t)
	store := NewApplicationStore(db)

	err := store.Transition(context.Background(), "REF3", domain.ApplicationPending, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending target must be rejected, got %v", err)
	}
}
