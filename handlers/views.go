package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/soccer-web/middleware"
	"github.com/Dosada05/soccer-web/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutTemplate   = "templates/layout.html"
	partialsTemplate = "templates/partials.html"
	dateLayout       = "2006-01-02"
)

// Pages
const (
	pageTournamentsIndex  = "tournaments_index"
	pageTournamentForm    = "tournament_form"
	pageTournamentDetails = "tournament_details"
	pageGroupForm         = "group_form"
	pageGroupDetails      = "group_details"
	pageTeamsIndex        = "teams_index"
	pageTeamForm          = "team_form"
	pageLogin             = "login"
	pageError             = "error"
)

// viewData is what every page template receives. Pages read only the fields they need.
type viewData struct {
	AuthEnabled bool
	IsAdmin     bool

	Title    string
	Message  string
	Action   string
	Username string
	Errors   map[string]string
	Form     interface{}

	Tournaments []models.Tournament
	Tournament  *models.Tournament
	Group       *models.Group
	Teams       []models.Team
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(dateLayout)
	},
	"score": func(goals *int) string {
		if goals == nil {
			return ""
		}
		return strconv.Itoa(*goals)
	},
}

// Renderer executes embedded page templates inside the shared layout.
type Renderer struct {
	pages       map[string]*template.Template
	authEnabled bool
}

func NewRenderer(authEnabled bool) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		if file == layoutTemplate || file == partialsTemplate {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, partialsTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, authEnabled: authEnabled}, nil
}

// Render writes page with status. The page is rendered into a buffer first so a template
// failure still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data viewData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		slog.Error("unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data.AuthEnabled = rd.authEnabled
	data.IsAdmin = !rd.authEnabled || middleware.IsAdmin(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write response", "page", page, "error", err)
	}
}

func (rd *Renderer) notFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusNotFound, pageError, viewData{
		Title:   "Not found",
		Message: "The requested resource could not be found.",
	})
}

func (rd *Renderer) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	rd.Render(w, r, http.StatusBadRequest, pageError, viewData{Title: "Bad request", Message: err.Error()})
}

func (rd *Renderer) conflict(w http.ResponseWriter, r *http.Request, message string) {
	rd.Render(w, r, http.StatusConflict, pageError, viewData{Title: "Conflict", Message: message})
}

func (rd *Renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
	rd.Render(w, r, http.StatusInternalServerError, pageError, viewData{
		Title:   "Server error",
		Message: "The server encountered a problem and could not process your request.",
	})
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
