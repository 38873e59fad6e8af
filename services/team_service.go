package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/soccer-web/converter"
	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/repositories"
	"github.com/Dosada05/soccer-web/storage"
)

type TeamService interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	CreateTeam(ctx context.Context, vm models.TeamViewModel) (*models.Team, error)
	GetTeamForEdit(ctx context.Context, id int) (models.TeamViewModel, error)
	UpdateTeam(ctx context.Context, vm models.TeamViewModel) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo  repositories.TeamRepository
	converter *converter.Converter
	images    ImageUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, conv *converter.Converter, images ImageUploader) TeamService {
	return &teamService{teamRepo: teamRepo, converter: conv, images: images}
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) CreateTeam(ctx context.Context, vm models.TeamViewModel) (*models.Team, error) {
	if v := validateTeam(&vm); !v.Valid() {
		return nil, v
	}
	logoPath, err := resolveLogoPath(ctx, s.images, vm.LogoFile, "", storage.CategoryTeams)
	if err != nil {
		return nil, err
	}

	team := s.converter.ToTeamEntity(vm, logoPath, true)
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, mapTeamError(err, "create")
	}

	slog.Info("team created", "team_id", team.ID, "name", team.Name)
	return team, nil
}

func (s *teamService) GetTeamForEdit(ctx context.Context, id int) (models.TeamViewModel, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return models.TeamViewModel{}, mapTeamError(err, "get")
	}
	return s.converter.ToTeamViewModel(team), nil
}

func (s *teamService) UpdateTeam(ctx context.Context, vm models.TeamViewModel) (*models.Team, error) {
	existing, err := s.teamRepo.GetByID(ctx, vm.ID)
	if err != nil {
		return nil, mapTeamError(err, "get")
	}
	if v := validateTeam(&vm); !v.Valid() {
		return nil, v
	}

	current := vm.LogoPath
	if current == "" {
		current = existing.LogoPath
	}
	logoPath, err := resolveLogoPath(ctx, s.images, vm.LogoFile, current, storage.CategoryTeams)
	if err != nil {
		return nil, err
	}

	team := s.converter.ToTeamEntity(vm, logoPath, false)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, mapTeamError(err, "update")
	}

	slog.Info("team updated", "team_id", team.ID)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return mapTeamError(err, "delete")
	}
	slog.Info("team deleted", "team_id", id)
	return nil
}

func mapTeamError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		v := newValidationError()
		v.addCause("name", "is already in use", ErrTeamNameConflict)
		return v
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrTeamInUse
	default:
		return fmt.Errorf("failed to %s team: %w", op, err)
	}
}
