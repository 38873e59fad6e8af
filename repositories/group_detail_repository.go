package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/soccer-web/models"
)

var (
	ErrGroupDetailConflict         = errors.New("team already has a standings row in this group")
	ErrGroupDetailInvalidReference = errors.New("standings row references an unknown group or team")
)

type GroupDetailRepository interface {
	Create(ctx context.Context, exec SQLExecutor, detail *models.GroupDetail) error
	ListByGroupIDs(ctx context.Context, groupIDs []int) (map[int][]models.GroupDetail, error)
	DeleteByGroupID(ctx context.Context, exec SQLExecutor, groupID int) (int64, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error)
}

type postgresGroupDetailRepository struct {
	db *sql.DB
}

func NewPostgresGroupDetailRepository(db *sql.DB) GroupDetailRepository {
	return &postgresGroupDetailRepository{db: db}
}

func (r *postgresGroupDetailRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupDetailRepository) Create(ctx context.Context, exec SQLExecutor, d *models.GroupDetail) error {
	if d.Team == nil {
		return ErrGroupDetailInvalidReference
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO group_details
		    (group_id, team_id, matches_played, matches_won, matches_tied, matches_lost, goals_for, goals_against)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		d.GroupID, d.Team.ID, d.MatchesPlayed, d.MatchesWon, d.MatchesTied, d.MatchesLost,
		d.GoalsFor, d.GoalsAgainst,
	).Scan(&d.ID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrGroupDetailConflict
	case isForeignKeyViolation(err):
		return ErrGroupDetailInvalidReference
	default:
		return err
	}
}

// ListByGroupIDs returns standings keyed by group id with the team attached,
// ranked by points, goal difference, goals for.
func (r *postgresGroupDetailRepository) ListByGroupIDs(ctx context.Context, groupIDs []int) (map[int][]models.GroupDetail, error) {
	details := make(map[int][]models.GroupDetail, len(groupIDs))
	if len(groupIDs) == 0 {
		return details, nil
	}

	for _, chunk := range idChunks(groupIDs, maxInClauseIDs) {
		if err := r.listByGroupIDs(ctx, chunk, details); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (r *postgresGroupDetailRepository) listByGroupIDs(ctx context.Context, groupIDs []int, into map[int][]models.GroupDetail) error {
	marks, args := inClause(1, groupIDs)
	query := fmt.Sprintf(`
		SELECT d.id, d.group_id, d.matches_played, d.matches_won, d.matches_tied, d.matches_lost,
		       d.goals_for, d.goals_against,
		       t.id, t.name, t.logo_path
		FROM group_details d
		JOIN teams t ON t.id = d.team_id
		WHERE d.group_id IN (%s)
		ORDER BY d.group_id ASC,
		         (d.matches_won * 3 + d.matches_tied) DESC,
		         (d.goals_for - d.goals_against) DESC,
		         d.goals_for DESC,
		         d.id ASC`, marks)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list group details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.GroupDetail
		var team models.Team
		if scanErr := rows.Scan(
			&d.ID, &d.GroupID, &d.MatchesPlayed, &d.MatchesWon, &d.MatchesTied, &d.MatchesLost,
			&d.GoalsFor, &d.GoalsAgainst,
			&team.ID, &team.Name, &team.LogoPath,
		); scanErr != nil {
			return fmt.Errorf("failed to scan group detail: %w", scanErr)
		}
		d.Team = &team
		into[d.GroupID] = append(into[d.GroupID], d)
	}
	return rows.Err()
}

func (r *postgresGroupDetailRepository) DeleteByGroupID(ctx context.Context, exec SQLExecutor, groupID int) (int64, error) {
	if !storableID(groupID) {
		return 0, nil
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM group_details WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresGroupDetailRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error) {
	if !storableID(tournamentID) {
		return 0, nil
	}
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM group_details
		WHERE group_id IN (SELECT id FROM tournament_groups WHERE tournament_id = $1)`
	result, err := executor.ExecContext(ctx, query, tournamentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
