package routes

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/soccer-web/docs"
	"github.com/Dosada05/soccer-web/handlers"
	"github.com/Dosada05/soccer-web/middleware"
)

// Options carries everything the router needs besides the handlers.
type Options struct {
	// JWTSecret turns on token checks for mutating routes. Empty disables auth.
	JWTSecret          string
	CORSAllowedOrigins []string
	// UploadDir and UploadURLPrefix are set only when logos are stored on local disk.
	UploadDir       string
	UploadURLPrefix string
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	groupHandler *handlers.GroupHandler,
	teamHandler *handlers.TeamHandler,
	apiHandler *handlers.APIHandler,
	authHandler *handlers.AuthHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	authEnabled := opts.JWTSecret != ""
	if authEnabled {
		router.Use(middleware.Authenticate([]byte(opts.JWTSecret)))
	}

	// admin guards mutating routes when auth is enabled.
	admin := func(r chi.Router) chi.Router {
		if !authEnabled {
			return r
		}
		return r.With(middleware.RequireRole(middleware.RoleAdmin))
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tournaments", http.StatusSeeOther)
	})
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/login", authHandler.LoginForm)
	router.Post("/logout", authHandler.Logout)
	router.Post("/auth/token", authHandler.Token)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.Details)

		r.Group(func(r chi.Router) {
			r = admin(r)
			r.Get("/create", tournamentHandler.CreateForm)
			r.Post("/create", tournamentHandler.Create)
			r.Get("/{id}/edit", tournamentHandler.EditForm)
			r.Post("/{id}/edit", tournamentHandler.Edit)
			r.Post("/{id}/delete", tournamentHandler.Delete)

			r.Get("/{id}/groups/add", groupHandler.AddForm)
			r.Post("/{id}/groups/add", groupHandler.Add)
		})
	})

	router.Route("/groups", func(r chi.Router) {
		r.Get("/{id}", groupHandler.Details)

		r.Group(func(r chi.Router) {
			r = admin(r)
			r.Get("/{id}/edit", groupHandler.EditForm)
			r.Post("/{id}/edit", groupHandler.Edit)
			r.Post("/{id}/delete", groupHandler.Delete)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)

		r.Group(func(r chi.Router) {
			r = admin(r)
			r.Get("/create", teamHandler.CreateForm)
			r.Post("/create", teamHandler.Create)
			r.Get("/{id}/edit", teamHandler.EditForm)
			r.Post("/{id}/edit", teamHandler.Edit)
			r.Post("/{id}/delete", teamHandler.Delete)
		})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/tournaments", apiHandler.ListTournaments)
		r.Get("/tournaments/{id}", apiHandler.GetTournament)
		r.Get("/groups/{id}", apiHandler.GetGroup)
		r.Get("/teams", apiHandler.ListTeams)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.UploadDir != "" {
		prefix := opts.UploadURLPrefix
		if prefix == "" {
			prefix = "/uploads/"
		}
		fileServer := http.StripPrefix(prefix, http.FileServer(neuteredFS{http.Dir(opts.UploadDir)}))
		// Stored files are untrusted: no sniffing, no script.
		router.With(
			chiMiddleware.SetHeader("X-Content-Type-Options", "nosniff"),
			chiMiddleware.SetHeader("Content-Security-Policy", "default-src 'none'; sandbox"),
		).Handle(prefix+"*", fileServer)
	}
}

// neuteredFS refuses directory listings.
type neuteredFS struct {
	fs http.FileSystem
}

func (n neuteredFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
