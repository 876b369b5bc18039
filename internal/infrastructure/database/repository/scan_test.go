package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"consent-engine/internal/domain/models"
	"consent-engine/internal/infrastructure/database"
)

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error { return r.err }

// fakeDB satisfies database.DBTX so the repository runs without a pool
type fakeDB struct {
	rowErr  error
	execTag pgconn.CommandTag
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f.execTag, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: f.rowErr}
}

var _ database.DBTX = (*fakeDB)(nil)

func TestGetByIDMapsNoRows(t *testing.T) {
	repo := NewScanRepository(&fakeDB{rowErr: pgx.ErrNoRows})

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingScan(t *testing.T) {
	repo := NewScanRepository(&fakeDB{})

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
