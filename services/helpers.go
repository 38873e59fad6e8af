package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/storage"
)

const (
	maxTournamentNameLength = 50
	maxGroupNameLength      = 30
	maxTeamNameLength       = 30
)

// ImageUploader turns an uploaded file into a stored path.
type ImageUploader interface {
	UploadImage(ctx context.Context, file *models.FileUpload, category string) (string, error)
}

// withTx runs fn in one transaction: rollback on error or panic, commit otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback failed", "error", rbErr, "cause", err)
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func checkName(v *ValidationError, field, name string, limit int) {
	switch {
	case name == "":
		v.Add(field, "must be provided")
	case utf8.RuneCountInString(name) > limit:
		v.Add(field, fmt.Sprintf("must not be more than %d characters long", limit))
	}
}

func validateTournament(vm *models.TournamentViewModel) *ValidationError {
	v := newValidationError()
	vm.Name = strings.TrimSpace(vm.Name)
	checkName(v, "name", vm.Name, maxTournamentNameLength)

	if vm.StartDate.IsZero() {
		v.Add("start_date", "must be provided")
	}
	if vm.EndDate.IsZero() {
		v.Add("end_date", "must be provided")
	}
	if !vm.StartDate.IsZero() && !vm.EndDate.IsZero() &&
		!dateOnly(vm.EndDate).After(dateOnly(vm.StartDate)) {
		v.addCause("end_date", "must be after the start date", ErrTournamentInvalidDateRange)
	}
	return v
}

func validateGroup(vm *models.GroupViewModel) *ValidationError {
	v := newValidationError()
	vm.Name = strings.TrimSpace(vm.Name)
	checkName(v, "name", vm.Name, maxGroupNameLength)
	return v
}

func validateTeam(vm *models.TeamViewModel) *ValidationError {
	v := newValidationError()
	vm.Name = strings.TrimSpace(vm.Name)
	checkName(v, "name", vm.Name, maxTeamNameLength)
	return v
}

// resolveLogoPath keeps current unless a new file is attached. Bad images become a
// validation failure on the logo_file field.
func resolveLogoPath(ctx context.Context, images ImageUploader, file *models.FileUpload, current, category string) (string, error) {
	if file == nil {
		return current, nil
	}
	path, err := images.UploadImage(ctx, file, category)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) ||
			errors.Is(err, storage.ErrImageTooLarge) ||
			errors.Is(err, storage.ErrEmptyImage) {
			v := newValidationError()
			v.addCause("logo_file", err.Error(), ErrInvalidLogo)
			return "", v
		}
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	return path, nil
}

func groupIDs(groups []models.Group) []int {
	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids
}
