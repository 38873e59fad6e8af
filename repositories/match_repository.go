package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/soccer-web/models"
)

var (
	ErrMatchInvalidReference = errors.New("match references an unknown group or team")
	ErrMatchSameTeams        = errors.New("local and visitor team must differ")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	ListByGroupIDs(ctx context.Context, groupIDs []int) (map[int][]models.Match, error)
	DeleteByGroupID(ctx context.Context, exec SQLExecutor, groupID int) (int64, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	if m.Local == nil || m.Visitor == nil {
		return ErrMatchInvalidReference
	}
	if m.Local.ID == m.Visitor.ID {
		return ErrMatchSameTeams
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (group_id, local_id, visitor_id, date, goals_local, goals_visitor, is_closed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		m.GroupID, m.Local.ID, m.Visitor.ID, m.Date, m.GoalsLocal, m.GoalsVisitor, m.IsClosed,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchInvalidReference
		}
		return err
	}
	return nil
}

// ListByGroupIDs returns matches keyed by group id with both teams attached, ordered by date.
func (r *postgresMatchRepository) ListByGroupIDs(ctx context.Context, groupIDs []int) (map[int][]models.Match, error) {
	matches := make(map[int][]models.Match, len(groupIDs))
	if len(groupIDs) == 0 {
		return matches, nil
	}

	for _, chunk := range idChunks(groupIDs, maxInClauseIDs) {
		if err := r.listByGroupIDs(ctx, chunk, matches); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (r *postgresMatchRepository) listByGroupIDs(ctx context.Context, groupIDs []int, into map[int][]models.Match) error {
	marks, args := inClause(1, groupIDs)
	query := fmt.Sprintf(`
		SELECT m.id, m.group_id, m.date, m.goals_local, m.goals_visitor, m.is_closed,
		       l.id, l.name, l.logo_path,
		       v.id, v.name, v.logo_path
		FROM matches m
		JOIN teams l ON l.id = m.local_id
		JOIN teams v ON v.id = m.visitor_id
		WHERE m.group_id IN (%s)
		ORDER BY m.group_id ASC, m.date ASC, m.id ASC`, marks)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Match
		var local, visitor models.Team
		if scanErr := rows.Scan(
			&m.ID, &m.GroupID, &m.Date, &m.GoalsLocal, &m.GoalsVisitor, &m.IsClosed,
			&local.ID, &local.Name, &local.LogoPath,
			&visitor.ID, &visitor.Name, &visitor.LogoPath,
		); scanErr != nil {
			return fmt.Errorf("failed to scan match: %w", scanErr)
		}
		m.Date = m.Date.UTC()
		m.Local = &local
		m.Visitor = &visitor
		into[m.GroupID] = append(into[m.GroupID], m)
	}
	return rows.Err()
}

func (r *postgresMatchRepository) DeleteByGroupID(ctx context.Context, exec SQLExecutor, groupID int) (int64, error) {
	if !storableID(groupID) {
		return 0, nil
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error) {
	if !storableID(tournamentID) {
		return 0, nil
	}
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM matches
		WHERE group_id IN (SELECT id FROM tournament_groups WHERE tournament_id = $1)`
	result, err := executor.ExecContext(ctx, query, tournamentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
