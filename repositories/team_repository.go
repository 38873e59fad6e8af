package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/soccer-web/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists")
	ErrTeamInUse        = errors.New("team is referenced by matches or standings")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (name, logo_path) VALUES ($1, $2) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, team.Name, team.LogoPath).Scan(&team.ID)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if !storableID(id) {
		return nil, ErrTeamNotFound
	}
	query := `SELECT id, name, logo_path FROM teams WHERE id = $1`

	var team models.Team
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.LogoPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, logo_path FROM teams ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(&team.ID, &team.Name, &team.LogoPath); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team: %w", scanErr)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	if !storableID(team.ID) {
		return ErrTeamNotFound
	}
	query := `UPDATE teams SET name = $1, logo_path = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, team.Name, team.LogoPath, team.ID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	if !storableID(id) {
		return ErrTeamNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrTeamNameConflict
	case isForeignKeyViolation(err):
		return ErrTeamInUse
	default:
		return err
	}
}
