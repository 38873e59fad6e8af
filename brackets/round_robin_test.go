package brackets

import (
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/soccer-web/models"
)

func teams(n int) []*models.Team {
	out := make([]*models.Team, n)
	for i := range out {
		out[i] = &models.Team{ID: i + 1}
	}
	return out
}

func TestRoundRobinPairsEveryTeamOnce(t *testing.T) {
	t.Parallel()

	for _, size := range []int{2, 3, 4, 5, 6} {
		matches, err := RoundRobin(RoundRobinParams{GroupID: 9, Teams: teams(size), FirstDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if want := size * (size - 1) / 2; len(matches) != want {
			t.Fatalf("size %d: %d matches, want %d", size, len(matches), want)
		}

		pairs := make(map[[2]int]bool)
		perDay := make(map[time.Time]map[int]bool)
		for _, m := range matches {
			if m.GroupID != 9 {
				t.Fatalf("group id = %d", m.GroupID)
			}
			a, b := m.Local.ID, m.Visitor.ID
			if a == b {
				t.Fatalf("team %d plays itself", a)
			}
			if a > b {
				a, b = b, a
			}
			if pairs[[2]int{a, b}] {
				t.Fatalf("size %d: pair %d-%d scheduled twice", size, a, b)
			}
			pairs[[2]int{a, b}] = true

			if perDay[m.Date] == nil {
				perDay[m.Date] = make(map[int]bool)
			}
			for _, id := range []int{m.Local.ID, m.Visitor.ID} {
				if perDay[m.Date][id] {
					t.Fatalf("size %d: team %d plays twice on %s", size, id, m.Date.Format("2006-01-02"))
				}
				perDay[m.Date][id] = true
			}
		}
	}
}

func TestRoundRobinTwoLegsSwapsHosts(t *testing.T) {
	t.Parallel()

	matches, err := RoundRobin(RoundRobinParams{Teams: teams(4), Legs: 2, DaysBetweenRounds: 3})
	if err != nil {
		t.Fatalf("RoundRobin: %v", err)
	}
	if len(matches) != 12 {
		t.Fatalf("matches = %d, want 12", len(matches))
	}
	hosted := make(map[[2]int]int)
	for _, m := range matches {
		hosted[[2]int{m.Local.ID, m.Visitor.ID}]++
	}
	for pair, n := range hosted {
		if n != 1 {
			t.Fatalf("%v hosted %d times", pair, n)
		}
		if hosted[[2]int{pair[1], pair[0]}] != 1 {
			t.Fatalf("return leg of %v missing", pair)
		}
	}
	if got := matches[len(matches)-1].Date; !got.Equal(time.Time{}.AddDate(0, 0, 15)) {
		t.Fatalf("last match day = %s, want six rounds three days apart", got)
	}
}

func TestRoundRobinNeedsTwoTeams(t *testing.T) {
	t.Parallel()
	if _, err := RoundRobin(RoundRobinParams{Teams: teams(1)}); !errors.Is(err, ErrNotEnoughTeams) {
		t.Fatalf("err = %v, want ErrNotEnoughTeams", err)
	}
}
