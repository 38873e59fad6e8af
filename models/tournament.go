package models

import "time"

// Tournament owns its groups.
type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	LogoPath  string    `json:"logo_path,omitempty" db:"logo_path"`
	IsActive  bool      `json:"is_active" db:"is_active"`

	// Groups are deleted together with the tournament.
	Groups []Group `json:"groups,omitempty" db:"-"`
}

// Group is a league table inside a tournament.
type Group struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Parent tournament (back-reference, not ownership).
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`

	Matches      []Match       `json:"matches,omitempty" db:"-"`
	GroupDetails []GroupDetail `json:"group_details,omitempty" db:"-"`
}

// TournamentID returns the parent tournament id, or 0 when the parent is unresolved.
func (g Group) TournamentID() int {
	if g.Tournament == nil {
		return 0
	}
	return g.Tournament.ID
}
