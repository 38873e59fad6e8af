package models

// GroupDetail is one standings row of a team within a group.
type GroupDetail struct {
	ID            int `json:"id" db:"id"`
	GroupID       int `json:"group_id" db:"group_id"`
	MatchesPlayed int `json:"matches_played" db:"matches_played"`
	MatchesWon    int `json:"matches_won" db:"matches_won"`
	MatchesTied   int `json:"matches_tied" db:"matches_tied"`
	MatchesLost   int `json:"matches_lost" db:"matches_lost"`
	GoalsFor      int `json:"goals_for" db:"goals_for"`
	GoalsAgainst  int `json:"goals_against" db:"goals_against"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// Points: 3 per win, 1 per tie.
func (d GroupDetail) Points() int {
	return d.MatchesWon*3 + d.MatchesTied
}

func (d GroupDetail) GoalDifference() int {
	return d.GoalsFor - d.GoalsAgainst
}
