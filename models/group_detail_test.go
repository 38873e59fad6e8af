package models

import "testing"

func TestGroupDetailPointsAndGoalDifference(t *testing.T) {
	t.Parallel()

	d := GroupDetail{MatchesWon: 2, MatchesTied: 1, MatchesLost: 1, GoalsFor: 7, GoalsAgainst: 9}
	if got := d.Points(); got != 7 {
		t.Fatalf("points = %d, want 7", got)
	}
	if got := d.GoalDifference(); got != -2 {
		t.Fatalf("goal difference = %d, want -2", got)
	}
}

func TestGroupTournamentID(t *testing.T) {
	t.Parallel()

	if got := (Group{}).TournamentID(); got != 0 {
		t.Fatalf("unresolved tournament id = %d, want 0", got)
	}
	g := Group{Tournament: &Tournament{ID: 12}}
	if got := g.TournamentID(); got != 12 {
		t.Fatalf("tournament id = %d, want 12", got)
	}
}
