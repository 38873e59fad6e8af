package repositories

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/testutil"
)

type fixture struct {
	db          *sql.DB
	tournaments TournamentRepository
	groups      GroupRepository
	matches     MatchRepository
	details     GroupDetailRepository
	teams       TeamRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := testutil.OpenDB(t)
	return fixture{
		db:          conn,
		tournaments: NewPostgresTournamentRepository(conn),
		groups:      NewPostgresGroupRepository(conn),
		matches:     NewPostgresMatchRepository(conn),
		details:     NewPostgresGroupDetailRepository(conn),
		teams:       NewPostgresTeamRepository(conn),
	}
}

func (f fixture) tournament(t *testing.T, name string, start time.Time) *models.Tournament {
	t.Helper()
	tr := &models.Tournament{Name: name, StartDate: start, EndDate: start.AddDate(0, 0, 9), IsActive: true}
	if err := f.tournaments.Create(context.Background(), nil, tr); err != nil {
		t.Fatalf("create tournament %s: %v", name, err)
	}
	return tr
}

func (f fixture) group(t *testing.T, tr *models.Tournament, name string) *models.Group {
	t.Helper()
	g := &models.Group{Name: name, Tournament: tr}
	if err := f.groups.Create(context.Background(), nil, g); err != nil {
		t.Fatalf("create group %s: %v", name, err)
	}
	return g
}

func (f fixture) team(t *testing.T, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name}
	if err := f.teams.Create(context.Background(), team); err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func TestTournamentCreateGetRoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	created := f.tournament(t, "Cup A", testutil.Date(2024, time.January, 1))
	if created.ID == 0 {
		t.Fatal("expected store-assigned id")
	}

	got, err := f.tournaments.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get tournament: %v", err)
	}
	if got.Name != "Cup A" {
		t.Fatalf("name = %q, want %q", got.Name, "Cup A")
	}
	if !got.StartDate.Equal(created.StartDate) || !got.EndDate.Equal(created.EndDate) {
		t.Fatalf("dates = %v..%v, want %v..%v", got.StartDate, got.EndDate, created.StartDate, created.EndDate)
	}
	if !got.IsActive {
		t.Fatal("expected active tournament")
	}
}

func TestTournamentGetByIDNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.tournaments.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrTournamentNotFound)
	}
}

func TestTournamentListOrdersByStartDate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.tournament(t, "Late", testutil.Date(2024, time.February, 1))
	f.tournament(t, "Early", testutil.Date(2024, time.January, 1))

	list, err := f.tournaments.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Name != "Early" || list[1].Name != "Late" {
		t.Fatalf("order = [%s %s], want [Early Late]", list[0].Name, list[1].Name)
	}
}

func TestTournamentUpdateAndDeleteMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	missing := &models.Tournament{ID: 99, Name: "Ghost", StartDate: testutil.Date(2024, 1, 1), EndDate: testutil.Date(2024, 1, 2)}
	if err := f.tournaments.Update(ctx, nil, missing); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("update err = %v, want %v", err, ErrTournamentNotFound)
	}
	if err := f.tournaments.Delete(ctx, nil, 99); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("delete err = %v, want %v", err, ErrTournamentNotFound)
	}
}

func TestGroupGetByIDAttachesTournament(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tr := f.tournament(t, "Cup", testutil.Date(2024, time.March, 1))
	g := f.group(t, tr, "A")

	got, err := f.groups.GetByID(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if got.Tournament == nil || got.Tournament.ID != tr.ID {
		t.Fatalf("tournament = %+v, want id %d", got.Tournament, tr.ID)
	}
	if got.Tournament.Name != "Cup" {
		t.Fatalf("tournament name = %q, want %q", got.Tournament.Name, "Cup")
	}
}

func TestGroupCreateRejectsUnknownTournament(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if err := f.groups.Create(ctx, nil, &models.Group{Name: "A"}); !errors.Is(err, ErrGroupInvalidTournament) {
		t.Fatalf("nil parent err = %v, want %v", err, ErrGroupInvalidTournament)
	}
	err := f.groups.Create(ctx, nil, &models.Group{Name: "A", Tournament: &models.Tournament{ID: 777}})
	if !errors.Is(err, ErrGroupInvalidTournament) {
		t.Fatalf("unknown parent err = %v, want %v", err, ErrGroupInvalidTournament)
	}
}

func TestGroupListByTournamentIDs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	one := f.tournament(t, "One", testutil.Date(2024, 1, 1))
	two := f.tournament(t, "Two", testutil.Date(2024, 2, 1))
	f.group(t, one, "A")
	f.group(t, one, "B")
	f.group(t, two, "C")

	groups, err := f.groups.ListByTournamentIDs(context.Background(), []int{one.ID, two.ID})
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups[one.ID]) != 2 || len(groups[two.ID]) != 1 {
		t.Fatalf("groups per tournament = %d/%d, want 2/1", len(groups[one.ID]), len(groups[two.ID]))
	}
	if groups[one.ID][0].Name != "A" {
		t.Fatalf("first group = %q, want A", groups[one.ID][0].Name)
	}
	if got := groups[two.ID][0].TournamentID(); got != two.ID {
		t.Fatalf("back reference = %d, want %d", got, two.ID)
	}

	empty, err := f.groups.ListByTournamentIDs(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty list = %v, %v", empty, err)
	}
}

func TestMatchesAndDetailsAttachTeams(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	tr := f.tournament(t, "Cup", testutil.Date(2024, 1, 1))
	g := f.group(t, tr, "A")
	home, away := f.team(t, "Home"), f.team(t, "Away")

	goals := 2
	m := &models.Match{GroupID: g.ID, Local: home, Visitor: away, Date: testutil.Date(2024, 1, 2), GoalsLocal: &goals}
	if err := f.matches.Create(ctx, nil, m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	for _, d := range []*models.GroupDetail{
		{GroupID: g.ID, Team: away, MatchesPlayed: 1, MatchesLost: 1},
		{GroupID: g.ID, Team: home, MatchesPlayed: 1, MatchesWon: 1, GoalsFor: 2},
	} {
		if err := f.details.Create(ctx, nil, d); err != nil {
			t.Fatalf("create detail: %v", err)
		}
	}

	matches, err := f.matches.ListByGroupIDs(ctx, []int{g.ID})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	got := matches[g.ID]
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	if got[0].Local.Name != "Home" || got[0].Visitor.Name != "Away" {
		t.Fatalf("teams = %s vs %s, want Home vs Away", got[0].Local.Name, got[0].Visitor.Name)
	}
	if got[0].GoalsLocal == nil || *got[0].GoalsLocal != 2 || got[0].GoalsVisitor != nil {
		t.Fatalf("goals = %v/%v, want 2/nil", got[0].GoalsLocal, got[0].GoalsVisitor)
	}

	details, err := f.details.ListByGroupIDs(ctx, []int{g.ID})
	if err != nil {
		t.Fatalf("list details: %v", err)
	}
	if len(details[g.ID]) != 2 {
		t.Fatalf("details = %d, want 2", len(details[g.ID]))
	}
	if details[g.ID][0].Team.Name != "Home" {
		t.Fatalf("leader = %q, want Home", details[g.ID][0].Team.Name)
	}

	dup := &models.GroupDetail{GroupID: g.ID, Team: home}
	if err := f.details.Create(ctx, nil, dup); !errors.Is(err, ErrGroupDetailConflict) {
		t.Fatalf("duplicate detail err = %v, want %v", err, ErrGroupDetailConflict)
	}
}

func TestMatchCreateValidatesTeams(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	tr := f.tournament(t, "Cup", testutil.Date(2024, 1, 1))
	g := f.group(t, tr, "A")
	team := f.team(t, "Solo")

	same := &models.Match{GroupID: g.ID, Local: team, Visitor: team, Date: testutil.Date(2024, 1, 2)}
	if err := f.matches.Create(ctx, nil, same); !errors.Is(err, ErrMatchSameTeams) {
		t.Fatalf("same teams err = %v, want %v", err, ErrMatchSameTeams)
	}
	ghost := &models.Match{GroupID: g.ID, Local: team, Visitor: &models.Team{ID: 999}, Date: testutil.Date(2024, 1, 2)}
	if err := f.matches.Create(ctx, nil, ghost); !errors.Is(err, ErrMatchInvalidReference) {
		t.Fatalf("unknown team err = %v, want %v", err, ErrMatchInvalidReference)
	}
}

func TestDeleteByTournamentIDRemovesChildren(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	keep := f.tournament(t, "Keep", testutil.Date(2024, 1, 1))
	drop := f.tournament(t, "Drop", testutil.Date(2024, 2, 1))
	home, away := f.team(t, "Home"), f.team(t, "Away")
	for _, tr := range []*models.Tournament{keep, drop} {
		g := f.group(t, tr, "A")
		if err := f.matches.Create(ctx, nil, &models.Match{GroupID: g.ID, Local: home, Visitor: away, Date: tr.StartDate}); err != nil {
			t.Fatalf("create match: %v", err)
		}
		if err := f.details.Create(ctx, nil, &models.GroupDetail{GroupID: g.ID, Team: home}); err != nil {
			t.Fatalf("create detail: %v", err)
		}
	}

	if n, err := f.details.DeleteByTournamentID(ctx, nil, drop.ID); err != nil || n != 1 {
		t.Fatalf("delete details = %d, %v; want 1", n, err)
	}
	if n, err := f.matches.DeleteByTournamentID(ctx, nil, drop.ID); err != nil || n != 1 {
		t.Fatalf("delete matches = %d, %v; want 1", n, err)
	}
	if err := f.groups.DeleteByTournamentID(ctx, nil, drop.ID); err != nil {
		t.Fatalf("delete groups: %v", err)
	}
	if err := f.tournaments.Delete(ctx, nil, drop.ID); err != nil {
		t.Fatalf("delete tournament: %v", err)
	}

	if n := testutil.CountRows(t, f.db, "matches", ""); n != 1 {
		t.Fatalf("remaining matches = %d, want 1", n)
	}
	if n := testutil.CountRows(t, f.db, "group_details", ""); n != 1 {
		t.Fatalf("remaining details = %d, want 1", n)
	}
	if n := testutil.CountRows(t, f.db, "tournament_groups", "tournament_id = $1", keep.ID); n != 1 {
		t.Fatalf("remaining groups of kept tournament = %d, want 1", n)
	}
}

func TestTeamConstraints(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	home, away := f.team(t, "Home"), f.team(t, "Away")

	if err := f.teams.Create(ctx, &models.Team{Name: "Home"}); !errors.Is(err, ErrTeamNameConflict) {
		t.Fatalf("duplicate err = %v, want %v", err, ErrTeamNameConflict)
	}

	tr := f.tournament(t, "Cup", testutil.Date(2024, 1, 1))
	g := f.group(t, tr, "A")
	if err := f.matches.Create(ctx, nil, &models.Match{GroupID: g.ID, Local: home, Visitor: away, Date: tr.StartDate}); err != nil {
		t.Fatalf("create match: %v", err)
	}
	if err := f.teams.Delete(ctx, home.ID); !errors.Is(err, ErrTeamInUse) {
		t.Fatalf("delete in-use err = %v, want %v", err, ErrTeamInUse)
	}
	if err := f.teams.Delete(ctx, 12345); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("delete missing err = %v, want %v", err, ErrTeamNotFound)
	}

	home.Name = "Home FC"
	if err := f.teams.Update(ctx, home); err != nil {
		t.Fatalf("update team: %v", err)
	}
	list, err := f.teams.List(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Away" || list[1].Name != "Home FC" {
		t.Fatalf("teams = %+v, want [Away, Home FC]", list)
	}
}

func TestTransactionRollbackKeepsRows(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	tr := f.tournament(t, "Cup", testutil.Date(2024, 1, 1))
	f.group(t, tr, "A")

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := f.groups.DeleteByTournamentID(ctx, tx, tr.ID); err != nil {
		t.Fatalf("delete groups in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if n := testutil.CountRows(t, f.db, "tournament_groups", ""); n != 1 {
		t.Fatalf("groups after rollback = %d, want 1", n)
	}
}

func TestIDChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ids  []int
		size int
		want [][]int
	}{
		{name: "empty", ids: nil, size: 2, want: [][]int{}},
		{name: "exact", ids: []int{1, 2, 3, 4}, size: 2, want: [][]int{{1, 2}, {3, 4}}},
		{name: "remainder", ids: []int{1, 2, 3}, size: 2, want: [][]int{{1, 2}, {3}}},
		{name: "duplicates", ids: []int{5, 5, 6, 5, 7}, size: 2, want: [][]int{{5, 6}, {7}}},
		{name: "unstorable", ids: []int{0, -1, 8, math.MaxInt32 + 1}, size: 2, want: [][]int{{8}}},
		{name: "default size", ids: []int{1, 2}, size: 0, want: [][]int{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idChunks(tt.ids, tt.size); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("idChunks(%v, %d) = %v, want %v", tt.ids, tt.size, got, tt.want)
			}
		})
	}
}

func TestStorableID(t *testing.T) {
	t.Parallel()

	for id, want := range map[int]bool{
		-1:                false,
		0:                 false,
		1:                 true,
		math.MaxInt32:     true,
		math.MaxInt32 + 1: false,
		3000000000:        false,
	} {
		if got := storableID(id); got != want {
			t.Fatalf("storableID(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestLookupsBeyondKeyRangeAreMisses(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	const huge = 3000000000

	if _, err := f.tournaments.GetByID(ctx, huge); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("tournament err = %v, want %v", err, ErrTournamentNotFound)
	}
	if err := f.tournaments.Delete(ctx, nil, huge); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("tournament delete err = %v, want %v", err, ErrTournamentNotFound)
	}
	if _, err := f.groups.GetByID(ctx, huge); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("group err = %v, want %v", err, ErrGroupNotFound)
	}
	if _, err := f.teams.GetByID(ctx, huge); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("team err = %v, want %v", err, ErrTeamNotFound)
	}
	if n, err := f.matches.DeleteByGroupID(ctx, nil, huge); err != nil || n != 0 {
		t.Fatalf("match delete = %d, %v; want 0, nil", n, err)
	}
}

// paddedIDs surrounds first and last with more ids than one IN list may carry.
func paddedIDs(first, last int) []int {
	ids := []int{first}
	for i := 0; i < 3*maxInClauseIDs+1; i++ {
		ids = append(ids, 1000000+i)
	}
	return append(ids, first, last)
}

func TestListsSpanSeveralINBatches(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	one := f.tournament(t, "One", testutil.Date(2024, 1, 1))
	two := f.tournament(t, "Two", testutil.Date(2024, 2, 1))
	ga := f.group(t, one, "A")
	f.group(t, one, "B")
	gc := f.group(t, two, "C")
	home, away := f.team(t, "Home"), f.team(t, "Away")

	groups, err := f.groups.ListByTournamentIDs(ctx, paddedIDs(one.ID, two.ID))
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 2 || len(groups[one.ID]) != 2 || len(groups[two.ID]) != 1 {
		t.Fatalf("groups = %v, want 2 for One and 1 for Two", groups)
	}

	for _, g := range []*models.Group{ga, gc} {
		m := &models.Match{GroupID: g.ID, Local: home, Visitor: away, Date: testutil.Date(2024, 1, 2)}
		if err := f.matches.Create(ctx, nil, m); err != nil {
			t.Fatalf("create match: %v", err)
		}
		if err := f.details.Create(ctx, nil, &models.GroupDetail{GroupID: g.ID, Team: home}); err != nil {
			t.Fatalf("create detail: %v", err)
		}
	}

	matches, err := f.matches.ListByGroupIDs(ctx, paddedIDs(ga.ID, gc.ID))
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches[ga.ID]) != 1 || len(matches[gc.ID]) != 1 {
		t.Fatalf("matches = %d/%d, want 1/1", len(matches[ga.ID]), len(matches[gc.ID]))
	}

	details, err := f.details.ListByGroupIDs(ctx, paddedIDs(ga.ID, gc.ID))
	if err != nil {
		t.Fatalf("list details: %v", err)
	}
	if len(details[ga.ID]) != 1 || len(details[gc.ID]) != 1 {
		t.Fatalf("details = %d/%d, want 1/1", len(details[ga.ID]), len(details[gc.ID]))
	}
}
