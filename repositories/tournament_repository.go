package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/soccer-web/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentInvalidDates = errors.New("tournament end date must be after start date")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

// NewPostgresTournamentRepository works on any $n-placeholder driver (postgres, sqlite).
func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (name, start_date, end_date, logo_path, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.StartDate, t.EndDate, t.LogoPath, t.IsActive,
	).Scan(&t.ID)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if !storableID(id) {
		return nil, ErrTournamentNotFound
	}
	query := `
		SELECT id, name, start_date, end_date, logo_path, is_active
		FROM tournaments
		WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `
		SELECT id, name, start_date, end_date, logo_path, is_active
		FROM tournaments
		ORDER BY start_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	if !storableID(t.ID) {
		return ErrTournamentNotFound
	}
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments SET
			name = $1,
			start_date = $2,
			end_date = $3,
			logo_path = $4,
			is_active = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		t.Name, t.StartDate, t.EndDate, t.LogoPath, t.IsActive,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete removes the tournament row only. Callers delete groups, matches and
// standings first inside the same transaction.
func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if !storableID(id) {
		return ErrTournamentNotFound
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	if err := row.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.LogoPath, &t.IsActive); err != nil {
		return nil, err
	}
	t.StartDate = t.StartDate.UTC()
	t.EndDate = t.EndDate.UTC()
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if isCheckViolation(err) {
		return ErrTournamentInvalidDates
	}
	return err
}
