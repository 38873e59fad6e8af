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
)

type GroupService interface {
	NewGroupViewModel(ctx context.Context, tournamentID int) (models.GroupViewModel, error)
	AddGroup(ctx context.Context, vm models.GroupViewModel) (*models.Group, error)
	GetGroupForEdit(ctx context.Context, id int) (models.GroupViewModel, error)
	UpdateGroup(ctx context.Context, vm models.GroupViewModel) (*models.Group, error)
	// DeleteGroup returns the id of the tournament the group belonged to.
	DeleteGroup(ctx context.Context, id int) (int, error)
	GetGroupDetails(ctx context.Context, id int) (*models.Group, error)
}

type groupService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	groupRepo      repositories.GroupRepository
	matchRepo      repositories.MatchRepository
	detailRepo     repositories.GroupDetailRepository
	converter      *converter.Converter
	notifier       live.Notifier
}

func NewGroupService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	detailRepo repositories.GroupDetailRepository,
	conv *converter.Converter,
	notifier live.Notifier,
) GroupService {
	if notifier == nil {
		notifier = live.NopNotifier{}
	}
	return &groupService{
		db:             db,
		tournamentRepo: tournamentRepo,
		groupRepo:      groupRepo,
		matchRepo:      matchRepo,
		detailRepo:     detailRepo,
		converter:      conv,
		notifier:       notifier,
	}
}

// NewGroupViewModel prepares an empty group form bound to an existing tournament.
func (s *groupService) NewGroupViewModel(ctx context.Context, tournamentID int) (models.GroupViewModel, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return models.GroupViewModel{}, ErrTournamentNotFound
		}
		return models.GroupViewModel{}, fmt.Errorf("failed to get tournament by id %d: %w", tournamentID, err)
	}
	return models.GroupViewModel{TournamentID: tournament.ID, Tournament: tournament}, nil
}

func (s *groupService) AddGroup(ctx context.Context, vm models.GroupViewModel) (*models.Group, error) {
	group, err := s.convertGroup(ctx, vm, true)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.groupRepo.Create(ctx, tx, group)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "create")
	}

	slog.Info("group created", "group_id", group.ID, "tournament_id", group.TournamentID())
	s.notifier.Notify(group.TournamentID(), live.EventGroupCreated, group)
	return group, nil
}

func (s *groupService) GetGroupForEdit(ctx context.Context, id int) (models.GroupViewModel, error) {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return models.GroupViewModel{}, err
	}
	return s.converter.ToGroupViewModel(group), nil
}

func (s *groupService) UpdateGroup(ctx context.Context, vm models.GroupViewModel) (*models.Group, error) {
	existing, err := s.getGroup(ctx, vm.ID)
	if err != nil {
		return nil, err
	}

	group, err := s.convertGroup(ctx, vm, false)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.groupRepo.Update(ctx, tx, group)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "update")
	}

	slog.Info("group updated", "group_id", group.ID, "tournament_id", group.TournamentID())
	s.notifier.Notify(group.TournamentID(), live.EventGroupUpdated, group)
	if previous := existing.TournamentID(); previous != group.TournamentID() {
		s.notifier.Notify(previous, live.EventGroupDeleted, map[string]int{"group_id": group.ID})
	}
	return group, nil
}

// DeleteGroup removes the group's standings and matches and then the group in one transaction.
func (s *groupService) DeleteGroup(ctx context.Context, id int) (int, error) {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return 0, err
	}
	tournamentID := group.TournamentID()

	var details, matches int64
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if details, err = s.detailRepo.DeleteByGroupID(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete group details: %w", err)
		}
		if matches, err = s.matchRepo.DeleteByGroupID(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		return s.groupRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return 0, ErrGroupNotFound
		}
		return 0, fmt.Errorf("failed to delete group %d: %w", id, err)
	}

	slog.Info("group deleted", "group_id", id, "tournament_id", tournamentID, "matches", matches, "group_details", details)
	s.notifier.Notify(tournamentID, live.EventGroupDeleted, map[string]int{"group_id": id})
	return tournamentID, nil
}

func (s *groupService) GetGroupDetails(ctx context.Context, id int) (*models.Group, error) {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		matches map[int][]models.Match
		details map[int][]models.GroupDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByGroupIDs(gctx, []int{id})
		return err
	})
	g.Go(func() error {
		var err error
		details, err = s.detailRepo.ListByGroupIDs(gctx, []int{id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load details of group %d: %w", id, err)
	}

	group.Matches = matches[id]
	group.GroupDetails = details[id]
	return group, nil
}

// convertGroup validates vm and resolves its parent. An unresolved parent is reported as a
// validation failure on tournament_id, together with any field errors.
func (s *groupService) convertGroup(ctx context.Context, vm models.GroupViewModel, isNew bool) (*models.Group, error) {
	v := validateGroup(&vm)

	group, err := s.converter.ToGroupEntity(ctx, vm, isNew)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tournament %d: %w", vm.TournamentID, err)
	}
	if group.Tournament == nil {
		v.addCause("tournament_id", "must reference an existing tournament", ErrUnresolvedTournament)
	}
	if !v.Valid() {
		return nil, v
	}
	return group, nil
}

func (s *groupService) getGroup(ctx context.Context, id int) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group by id %d: %w", id, err)
	}
	return group, nil
}

func (s *groupService) mapWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrGroupNotFound):
		return ErrGroupNotFound
	case errors.Is(err, repositories.ErrGroupInvalidTournament):
		// tournament deleted between the lookup and the write
		v := newValidationError()
		v.addCause("tournament_id", "must reference an existing tournament", ErrUnresolvedTournament)
		return v
	default:
		return fmt.Errorf("failed to %s group: %w", op, err)
	}
}
