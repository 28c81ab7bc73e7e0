package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// calculationStore implements driven.CalculationStore.
type calculationStore struct {
	store *Store
}

var _ driven.CalculationStore = (*calculationStore)(nil)

// Save stores or replaces a calculation and its trains.
func (s *calculationStore) Save(ctx context.Context, calc *domain.Calculation) error {
	if calc == nil || calc.ID == "" {
		return domain.ErrInvalidInput
	}

	paramsJSON, err := json.Marshal(calc.Params)
	if err != nil {
		return fmt.Errorf("marshalling params: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calculations (id, name, params, found, skipped, discarded, total, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			params = excluded.params,
			found = excluded.found,
			skipped = excluded.skipped,
			discarded = excluded.discarded,
			total = excluded.total,
			duration_ns = excluded.duration_ns,
			created_at = excluded.created_at
	`, calc.ID, calc.Name, string(paramsJSON),
		int64(calc.Progress.Found), int64(calc.Progress.Skipped),
		int64(calc.Progress.Discarded), int64(calc.Progress.Total),
		calc.Duration.Nanoseconds(), formatTime(calc.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving calculation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM calculation_trains WHERE calculation_id = ?", calc.ID); err != nil {
		return fmt.Errorf("clearing trains: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO calculation_trains (calculation_id, rank, shafts, numerator, denominator, multiplier, max_force)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing train insert: %w", err)
	}
	defer stmt.Close()

	for rank, train := range calc.Trains {
		shaftsJSON, err := json.Marshal(train.Shafts)
		if err != nil {
			return fmt.Errorf("marshalling shafts: %w", err)
		}
		_, err = stmt.ExecContext(ctx, calc.ID, rank, string(shaftsJSON),
			train.Numerator, train.Denominator, train.OutputMultiplier, train.MaxForce)
		if err != nil {
			return fmt.Errorf("saving train %d: %w", rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing calculation: %w", err)
	}
	return nil
}

// Get retrieves a calculation and its trains by ID.
func (s *calculationStore) Get(ctx context.Context, id string) (*domain.Calculation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, params, found, skipped, discarded, total, duration_ns, created_at
		FROM calculations WHERE id = ?
	`, id)

	calc, err := scanCalculation(row)
	if err != nil {
		return nil, err
	}

	trains, err := s.trains(ctx, id)
	if err != nil {
		return nil, err
	}
	calc.Trains = trains
	return calc, nil
}

// List returns calculations with their trains, most recent first.
func (s *calculationStore) List(ctx context.Context, limit int) ([]domain.Calculation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, params, found, skipped, discarded, total, duration_ns, created_at
		FROM calculations
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying calculations: %w", err)
	}
	defer rows.Close()

	var calcs []domain.Calculation //nolint:prealloc // size unknown from query
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, *calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calculations: %w", err)
	}

	for i := range calcs {
		trains, err := s.trains(ctx, calcs[i].ID)
		if err != nil {
			return nil, err
		}
		calcs[i].Trains = trains
	}
	return calcs, nil
}

// Delete removes a calculation; its trains cascade.
func (s *calculationStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM calculations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting calculation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting calculation: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *calculationStore) trains(ctx context.Context, id string) ([]domain.GearTrain, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT shafts, numerator, denominator, multiplier, max_force
		FROM calculation_trains
		WHERE calculation_id = ?
		ORDER BY rank
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying trains: %w", err)
	}
	defer rows.Close()

	var trains []domain.GearTrain //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			shaftsJSON string
			train      domain.GearTrain
		)
		if err := rows.Scan(&shaftsJSON, &train.Numerator, &train.Denominator,
			&train.OutputMultiplier, &train.MaxForce); err != nil {
			return nil, fmt.Errorf("scanning train: %w", err)
		}
		if err := json.Unmarshal([]byte(shaftsJSON), &train.Shafts); err != nil {
			return nil, fmt.Errorf("unmarshalling shafts: %w", err)
		}
		trains = append(trains, train)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trains: %w", err)
	}
	return trains, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row scanner) (*domain.Calculation, error) {
	var (
		calc                             domain.Calculation
		paramsJSON, createdAt            string
		found, skipped, discarded, total int64
		durationNS                       int64
	)
	err := row.Scan(&calc.ID, &calc.Name, &paramsJSON, &found, &skipped, &discarded, &total, &durationNS, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning calculation: %w", err)
	}

	if err := json.Unmarshal([]byte(paramsJSON), &calc.Params); err != nil {
		return nil, fmt.Errorf("unmarshalling params: %w", err)
	}
	calc.Progress = domain.Progress{
		Found:     uint64(found),
		Skipped:   uint64(skipped),
		Discarded: uint64(discarded),
		Total:     uint64(total),
	}
	calc.Duration = time.Duration(durationNS)
	if calc.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &calc, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
