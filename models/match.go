package models

import "time"

// Match is a game between two teams inside a group. Local and Visitor are references,
// not owned by the match.
type Match struct {
	ID           int       `json:"id" db:"id"`
	GroupID      int       `json:"group_id" db:"group_id"`
	Date         time.Time `json:"date" db:"date"`
	GoalsLocal   *int      `json:"goals_local,omitempty" db:"goals_local"`
	GoalsVisitor *int      `json:"goals_visitor,omitempty" db:"goals_visitor"`
	IsClosed     bool      `json:"is_closed" db:"is_closed"`

	Local   *Team `json:"local,omitempty" db:"-"`
	Visitor *Team `json:"visitor,omitempty" db:"-"`
}
