package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/soccer-web/models"
)

var (
	ErrGroupNotFound          = errors.New("group not found")
	ErrGroupInvalidTournament = errors.New("invalid tournament reference")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	ListByTournamentIDs(ctx context.Context, tournamentIDs []int) (map[int][]models.Group, error)
	Update(ctx context.Context, exec SQLExecutor, group *models.Group) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Group) error {
	if g.Tournament == nil {
		return ErrGroupInvalidTournament
	}
	executor := r.getExecutor(exec)
	query := `INSERT INTO tournament_groups (name, tournament_id) VALUES ($1, $2) RETURNING id`

	err := executor.QueryRowContext(ctx, query, g.Name, g.Tournament.ID).Scan(&g.ID)
	return r.handleGroupError(err)
}

// GetByID loads the group together with its parent tournament.
func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	if !storableID(id) {
		return nil, ErrGroupNotFound
	}
	query := `
		SELECT g.id, g.name,
		       t.id, t.name, t.start_date, t.end_date, t.logo_path, t.is_active
		FROM tournament_groups g
		JOIN tournaments t ON t.id = g.tournament_id
		WHERE g.id = $1`

	var g models.Group
	var t models.Tournament
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name,
		&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.LogoPath, &t.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	t.StartDate = t.StartDate.UTC()
	t.EndDate = t.EndDate.UTC()
	g.Tournament = &t
	return &g, nil
}

// ListByTournamentIDs returns groups keyed by tournament id, ordered by id within each tournament.
// The Tournament back-reference carries only the id to keep the aggregate acyclic.
func (r *postgresGroupRepository) ListByTournamentIDs(ctx context.Context, tournamentIDs []int) (map[int][]models.Group, error) {
	groups := make(map[int][]models.Group, len(tournamentIDs))
	if len(tournamentIDs) == 0 {
		return groups, nil
	}

	for _, chunk := range idChunks(tournamentIDs, maxInClauseIDs) {
		if err := r.listByTournamentIDs(ctx, chunk, groups); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (r *postgresGroupRepository) listByTournamentIDs(ctx context.Context, tournamentIDs []int, into map[int][]models.Group) error {
	marks, args := inClause(1, tournamentIDs)
	query := fmt.Sprintf(`
		SELECT id, name, tournament_id
		FROM tournament_groups
		WHERE tournament_id IN (%s)
		ORDER BY tournament_id ASC, id ASC`, marks)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Group
		var tournamentID int
		if scanErr := rows.Scan(&g.ID, &g.Name, &tournamentID); scanErr != nil {
			return fmt.Errorf("failed to scan group: %w", scanErr)
		}
		g.Tournament = &models.Tournament{ID: tournamentID}
		into[tournamentID] = append(into[tournamentID], g)
	}
	return rows.Err()
}

func (r *postgresGroupRepository) Update(ctx context.Context, exec SQLExecutor, g *models.Group) error {
	if g.Tournament == nil || !storableID(g.Tournament.ID) {
		return ErrGroupInvalidTournament
	}
	if !storableID(g.ID) {
		return ErrGroupNotFound
	}
	executor := r.getExecutor(exec)
	query := `UPDATE tournament_groups SET name = $1, tournament_id = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, g.Name, g.Tournament.ID, g.ID)
	if err != nil {
		return r.handleGroupError(err)
	}
	return checkAffectedRows(result, ErrGroupNotFound)
}

func (r *postgresGroupRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if !storableID(id) {
		return ErrGroupNotFound
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournament_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGroupNotFound)
}

func (r *postgresGroupRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	if !storableID(tournamentID) {
		return nil
	}
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tournament_groups WHERE tournament_id = $1`, tournamentID)
	return err
}

func (r *postgresGroupRepository) handleGroupError(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return ErrGroupInvalidTournament
	}
	return err
}
