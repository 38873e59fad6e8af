package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/soccer-web/models"
)

const (
	fieldLogoFile = "logo_file"
	fieldLogoPath = "logo_path"

	// multipart parts beyond this stay on disk
	multipartMemory = 1 << 20

	// maxTextFormSize bounds everything in a form except its file.
	maxTextFormSize = 64 << 10
	noFileUpload    = 0
)

// submittedForm is a parsed form plus the conversion errors of its fields.
type submittedForm struct {
	r       *http.Request
	errors  map[string]string
	closers []io.Closer
}

// parseForm accepts urlencoded and multipart bodies. The body may carry maxFile bytes of file
// on top of maxTextFormSize; forms without a file pass 0.
func parseForm(w http.ResponseWriter, r *http.Request, maxFile int64) (*submittedForm, error) {
	if maxFile < 0 {
		maxFile = 0
	}
	limit := maxFile + maxTextFormSize
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, fmt.Errorf("request body must not be larger than %d bytes", limit)
		}
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return &submittedForm{r: r, errors: make(map[string]string)}, nil
}

func (f *submittedForm) Close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
	if f.r.MultipartForm != nil {
		_ = f.r.MultipartForm.RemoveAll()
	}
}

func (f *submittedForm) Valid() bool { return len(f.errors) == 0 }

func (f *submittedForm) String(field string) string {
	return f.r.PostFormValue(field)
}

func (f *submittedForm) Bool(field string) bool {
	switch strings.ToLower(f.r.PostFormValue(field)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func (f *submittedForm) Int(field string) int {
	raw := strings.TrimSpace(f.r.PostFormValue(field))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.errors[field] = "must be a number"
		return 0
	}
	return n
}

// Date parses YYYY-MM-DD. An empty value is left to service validation.
func (f *submittedForm) Date(field string) time.Time {
	raw := strings.TrimSpace(f.r.PostFormValue(field))
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		f.errors[field] = "must be a valid date (YYYY-MM-DD)"
		return time.Time{}
	}
	return t
}

// File returns the uploaded file of field, or nil when none was sent.
func (f *submittedForm) File(field string) *models.FileUpload {
	if f.r.MultipartForm == nil {
		return nil
	}
	file, header, err := f.r.FormFile(field)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			f.errors[field] = "could not read the uploaded file"
		}
		return nil
	}
	if header.Size == 0 && header.Filename == "" {
		file.Close()
		return nil
	}
	f.closers = append(f.closers, file)
	return &models.FileUpload{
		Filename:    header.Filename,
		ContentType: contentTypeOf(header, file),
		Size:        header.Size,
		Content:     file,
	}
}

// contentTypeOf trusts the part header unless it is missing or generic, then sniffs.
func contentTypeOf(header *multipart.FileHeader, file multipart.File) string {
	ct := header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return ct
	}
	return http.DetectContentType(buf[:n])
}

func (f *submittedForm) tournamentViewModel(id int) models.TournamentViewModel {
	return models.TournamentViewModel{
		ID:        id,
		Name:      f.String("name"),
		StartDate: f.Date("start_date"),
		EndDate:   f.Date("end_date"),
		IsActive:  f.Bool("is_active"),
		LogoPath:  f.String(fieldLogoPath),
		LogoFile:  f.File(fieldLogoFile),
	}
}

func (f *submittedForm) groupViewModel(id int) models.GroupViewModel {
	return models.GroupViewModel{
		ID:           id,
		Name:         f.String("name"),
		TournamentID: f.Int("tournament_id"),
	}
}

func (f *submittedForm) teamViewModel(id int) models.TeamViewModel {
	return models.TeamViewModel{
		ID:       id,
		Name:     f.String("name"),
		LogoPath: f.String(fieldLogoPath),
		LogoFile: f.File(fieldLogoFile),
	}
}
