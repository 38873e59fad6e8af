package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/soccer-web/middleware"
	"github.com/Dosada05/soccer-web/utils"
)

type AuthHandler struct {
	username     string
	passwordHash string
	jwtSecret    []byte
	tokenTTL     time.Duration
	views        *Renderer
}

func NewAuthHandler(username, passwordHash, jwtSecret string, tokenTTL time.Duration, views *Renderer) *AuthHandler {
	return &AuthHandler{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		views:        views,
	}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageLogin, viewData{})
}

// Token issues an admin token. JSON bodies get {"token": ...}; form posts get the token as a
// cookie and a redirect.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	isJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	var input loginInput
	if isJSON {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxTextFormSize)
		if err := r.ParseForm(); err != nil {
			h.views.badRequest(w, r, err)
			return
		}
		input.Username = r.PostFormValue("username")
		input.Password = r.PostFormValue("password")
	}

	if input.Username == "" || input.Password == "" {
		err := errors.New("username and password are required")
		if isJSON {
			badRequestResponse(w, r, err)
		} else {
			h.views.Render(w, r, http.StatusUnprocessableEntity, pageLogin, viewData{Message: err.Error(), Username: input.Username})
		}
		return
	}

	if !h.checkCredentials(input) {
		if isJSON {
			unauthorizedResponse(w, r, "invalid username or password")
		} else {
			h.views.Render(w, r, http.StatusUnauthorized, pageLogin, viewData{Message: "Invalid username or password.", Username: input.Username})
		}
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, input.Username, middleware.RoleAdmin, h.tokenTTL)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	if isJSON {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	redirect(w, r, "/tournaments")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	redirect(w, r, "/tournaments")
}

func (h *AuthHandler) checkCredentials(input loginInput) bool {
	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.username)) == 1
	passOK := utils.CheckPasswordHash(input.Password, h.passwordHash)
	return userOK && passOK
}
