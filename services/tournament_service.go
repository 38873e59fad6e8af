package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/soccer-web/converter"
	"github.com/Dosada05/soccer-web/live"
	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/repositories"
	"github.com/Dosada05/soccer-web/storage"
)

type TournamentService interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	CreateTournament(ctx context.Context, vm models.TournamentViewModel) (*models.Tournament, error)
	GetTournamentForEdit(ctx context.Context, id int) (models.TournamentViewModel, error)
	UpdateTournament(ctx context.Context, vm models.TournamentViewModel) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error
	GetTournamentDetails(ctx context.Context, id int) (*models.Tournament, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	groupRepo      repositories.GroupRepository
	matchRepo      repositories.MatchRepository
	detailRepo     repositories.GroupDetailRepository
	converter      *converter.Converter
	images         ImageUploader
	notifier       live.Notifier
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	detailRepo repositories.GroupDetailRepository,
	conv *converter.Converter,
	images ImageUploader,
	notifier live.Notifier,
) TournamentService {
	if notifier == nil {
		notifier = live.NopNotifier{}
	}
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		groupRepo:      groupRepo,
		matchRepo:      matchRepo,
		detailRepo:     detailRepo,
		converter:      conv,
		images:         images,
		notifier:       notifier,
	}
}

// ListTournaments returns every tournament by start date with its groups attached.
func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	ids := make([]int, 0, len(tournaments))
	for _, t := range tournaments {
		ids = append(ids, t.ID)
	}
	groups, err := s.groupRepo.ListByTournamentIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament groups: %w", err)
	}
	for i := range tournaments {
		tournaments[i].Groups = groups[tournaments[i].ID]
	}
	return tournaments, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, vm models.TournamentViewModel) (*models.Tournament, error) {
	if v := validateTournament(&vm); !v.Valid() {
		return nil, v
	}

	logoPath, err := resolveLogoPath(ctx, s.images, vm.LogoFile, "", storage.CategoryTournaments)
	if err != nil {
		return nil, err
	}

	tournament := s.converter.ToTournamentEntity(vm, logoPath, true)
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.tournamentRepo.Create(ctx, tx, tournament)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "create")
	}

	slog.Info("tournament created", "tournament_id", tournament.ID, "name", tournament.Name)
	return tournament, nil
}

func (s *tournamentService) GetTournamentForEdit(ctx context.Context, id int) (models.TournamentViewModel, error) {
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return models.TournamentViewModel{}, err
	}
	return s.converter.ToTournamentViewModel(tournament), nil
}

// UpdateTournament keeps the stored logo unless vm carries a new file; an explicit
// vm.LogoPath from the form wins over the stored one.
func (s *tournamentService) UpdateTournament(ctx context.Context, vm models.TournamentViewModel) (*models.Tournament, error) {
	existing, err := s.getTournament(ctx, vm.ID)
	if err != nil {
		return nil, err
	}
	if v := validateTournament(&vm); !v.Valid() {
		return nil, v
	}

	current := vm.LogoPath
	if current == "" {
		current = existing.LogoPath
	}
	logoPath, err := resolveLogoPath(ctx, s.images, vm.LogoFile, current, storage.CategoryTournaments)
	if err != nil {
		return nil, err
	}

	tournament := s.converter.ToTournamentEntity(vm, logoPath, false)
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.tournamentRepo.Update(ctx, tx, tournament)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "update")
	}

	slog.Info("tournament updated", "tournament_id", tournament.ID)
	s.notifier.Notify(tournament.ID, live.EventTournamentUpdated, tournament)
	return tournament, nil
}

// DeleteTournament removes standings, matches and groups of the tournament and then the
// tournament itself, all in one transaction.
func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	var details, matches int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if details, err = s.detailRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete group details: %w", err)
		}
		if matches, err = s.matchRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		if err = s.groupRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete groups: %w", err)
		}
		return s.tournamentRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}

	slog.Info("tournament deleted", "tournament_id", id, "matches", matches, "group_details", details)
	s.notifier.Notify(id, live.EventTournamentDeleted, map[string]int{"tournament_id": id})
	return nil
}

// GetTournamentDetails loads the tournament with groups, matches (with both teams) and
// standings (with team).
func (s *tournamentService) GetTournamentDetails(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.ListByTournamentIDs(ctx, []int{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load groups of tournament %d: %w", id, err)
	}
	tournament.Groups = groups[id]

	ids := groupIDs(tournament.Groups)
	var (
		matches map[int][]models.Match
		details map[int][]models.GroupDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByGroupIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		details, err = s.detailRepo.ListByGroupIDs(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load details of tournament %d: %w", id, err)
	}

	for i := range tournament.Groups {
		gid := tournament.Groups[i].ID
		tournament.Groups[i].Matches = matches[gid]
		tournament.Groups[i].GroupDetails = details[gid]
	}
	return tournament, nil
}

func (s *tournamentService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by id %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) mapWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidDates):
		v := newValidationError()
		v.addCause("end_date", "must be after the start date", ErrTournamentInvalidDateRange)
		return v
	default:
		return fmt.Errorf("failed to %s tournament: %w", op, err)
	}
}
