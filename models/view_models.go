package models

import (
	"io"
	"time"
)

// FileUpload is a file received with a form. It is never persisted; the asset storage turns it
// into a path.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// TournamentViewModel is the form shape of a Tournament.
type TournamentViewModel struct {
	ID        int
	Name      string
	StartDate time.Time
	EndDate   time.Time
	LogoPath  string
	IsActive  bool
	Groups    []Group

	LogoFile *FileUpload
}

// GroupViewModel is the form shape of a Group. TournamentID is denormalized so the form can be
// resubmitted without the nested Tournament.
type GroupViewModel struct {
	ID           int
	Name         string
	TournamentID int
	Tournament   *Tournament
	Matches      []Match
	GroupDetails []GroupDetail
}

// TeamViewModel is the form shape of a Team.
type TeamViewModel struct {
	ID       int
	Name     string
	LogoPath string

	LogoFile *FileUpload
}
