// Package brackets builds group-stage fixtures.
package brackets

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/soccer-web/models"
)

var ErrNotEnoughTeams = errors.New("round robin needs at least 2 teams")

type RoundRobinParams struct {
	GroupID int
	Teams   []*models.Team
	// Legs is 1 for a single meeting per pair, 2 for home and away.
	Legs      int
	FirstDate time.Time
	// DaysBetweenRounds defaults to 7.
	DaysBetweenRounds int
}

// RoundRobin schedules every team against every other team of the group using the circle
// method, so no team plays twice on the same match day. With an odd number of teams one team
// rests each round.
func RoundRobin(params RoundRobinParams) ([]models.Match, error) {
	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughTeams, len(params.Teams))
	}
	legs := params.Legs
	if legs != 2 {
		legs = 1
	}
	step := params.DaysBetweenRounds
	if step <= 0 {
		step = 7
	}

	slots := append([]*models.Team(nil), params.Teams...)
	if len(slots)%2 == 1 {
		slots = append(slots, nil) // bye
	}
	n := len(slots)
	rounds := n - 1

	matches := make([]models.Match, 0, legs*len(params.Teams)*(len(params.Teams)-1)/2)
	for leg := 0; leg < legs; leg++ {
		ring := append([]*models.Team(nil), slots...)
		for round := 0; round < rounds; round++ {
			day := params.FirstDate.AddDate(0, 0, (leg*rounds+round)*step)
			for i := 0; i < n/2; i++ {
				home, away := ring[i], ring[n-1-i]
				if home == nil || away == nil {
					continue
				}
				// alternate hosts so the fixed slot is not always at home
				if (round+i)%2 == 1 {
					home, away = away, home
				}
				if leg == 1 {
					home, away = away, home
				}
				matches = append(matches, models.Match{
					GroupID: params.GroupID,
					Date:    day,
					Local:   home,
					Visitor: away,
				})
			}
			// rotate everything but the first slot
			last := ring[n-1]
			copy(ring[2:], ring[1:n-1])
			ring[1] = last
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})
	return matches, nil
}
