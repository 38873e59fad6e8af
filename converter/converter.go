// Package converter maps form view models to persisted entities and back.
package converter

import (
	"context"
	"errors"

	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/repositories"
)

// TournamentLookup resolves a tournament by id. It returns repositories.ErrTournamentNotFound
// when no tournament exists.
type TournamentLookup interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
}

type Converter struct {
	tournaments TournamentLookup
}

func NewConverter(lookup TournamentLookup) *Converter {
	return &Converter{tournaments: lookup}
}

// ToTournamentEntity builds a tournament from the form. path is the logo path to store;
// a new entity gets id 0 so the store assigns one. Dates keep their instant, in UTC.
func (c *Converter) ToTournamentEntity(vm models.TournamentViewModel, path string, isNew bool) *models.Tournament {
	t := &models.Tournament{
		Name:      vm.Name,
		StartDate: vm.StartDate.UTC(),
		EndDate:   vm.EndDate.UTC(),
		LogoPath:  path,
		IsActive:  vm.IsActive,
		Groups:    vm.Groups,
	}
	if !isNew {
		t.ID = vm.ID
	}
	return t
}

func (c *Converter) ToTournamentViewModel(t *models.Tournament) models.TournamentViewModel {
	if t == nil {
		return models.TournamentViewModel{}
	}
	return models.TournamentViewModel{
		ID:        t.ID,
		Name:      t.Name,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		LogoPath:  t.LogoPath,
		IsActive:  t.IsActive,
		Groups:    t.Groups,
	}
}

// ToGroupEntity resolves the parent tournament by vm.TournamentID. An unknown tournament leaves
// Tournament nil and is not an error here; the caller decides whether to block the commit.
func (c *Converter) ToGroupEntity(ctx context.Context, vm models.GroupViewModel, isNew bool) (*models.Group, error) {
	g := &models.Group{
		Name:         vm.Name,
		Matches:      vm.Matches,
		GroupDetails: vm.GroupDetails,
	}
	if !isNew {
		g.ID = vm.ID
	}

	if vm.TournamentID > 0 {
		parent, err := c.tournaments.GetByID(ctx, vm.TournamentID)
		switch {
		case err == nil:
			g.Tournament = parent
		case errors.Is(err, repositories.ErrTournamentNotFound):
			// unresolved parent
		default:
			return nil, err
		}
	}
	return g, nil
}

func (c *Converter) ToGroupViewModel(g *models.Group) models.GroupViewModel {
	if g == nil {
		return models.GroupViewModel{}
	}
	return models.GroupViewModel{
		ID:           g.ID,
		Name:         g.Name,
		TournamentID: g.TournamentID(),
		Tournament:   g.Tournament,
		Matches:      g.Matches,
		GroupDetails: g.GroupDetails,
	}
}

func (c *Converter) ToTeamEntity(vm models.TeamViewModel, path string, isNew bool) *models.Team {
	team := &models.Team{Name: vm.Name, LogoPath: path}
	if !isNew {
		team.ID = vm.ID
	}
	return team
}

func (c *Converter) ToTeamViewModel(team *models.Team) models.TeamViewModel {
	if team == nil {
		return models.TeamViewModel{}
	}
	return models.TeamViewModel{ID: team.ID, Name: team.Name, LogoPath: team.LogoPath}
}
