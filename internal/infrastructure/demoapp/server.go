// Package demoapp is a small server-rendered application with the same routes
// and test ids as the rooms application, used as a local target for the flows.
package demoapp

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/gorilla/securecookie"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

const sessionCookie = "rooms_session"

type Options struct {
	// RequestLogging enables httplog access logs on stdout.
	RequestLogging bool
	LogLevel       string
	// JSONLogs switches access logs from console to JSON lines.
	JSONLogs bool
}

type Server struct {
	store   *Store
	logger  output.LoggerPort
	opts    Options
	cookies *securecookie.SecureCookie
}

// New signs and encrypts session cookies with keys generated per server, so
// cookies never survive a restart.
func New(store *Store, logger output.LoggerPort, opts Options) *Server {
	cookies := securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	return &Server{
		store:   store,
		logger:  logger.Named("demoapp"),
		opts:    opts,
		cookies: cookies,
	}
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	if s.opts.RequestLogging {
		level := s.opts.LogLevel
		if level == "" {
			level = "info"
		}
		accessLog := httplog.NewLogger("demoapp", httplog.Options{
			LogLevel: level,
			JSON:     s.opts.JSONLogs,
			Concise:  true,
		})
		router.Use(httplog.RequestLogger(accessLog))
	}
	router.Use(securityHeaders)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	router.Get("/healthz", s.handleHealthz)
	router.Get("/login", s.handleLoginPage)
	router.Post("/login", s.handleLogin)
	router.Get("/register", s.handleRegisterPage)
	router.Post("/register", s.handleRegister)
	router.Post("/logout", s.handleLogout)

	router.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/my-rooms", s.handleRooms)
	})
	return router
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, loginTmpl, pageData{Title: "Sign in"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	if err := s.store.Authenticate(email, password); err != nil {
		s.logger.Info("Login rejected", "email", email)
		s.render(w, loginTmpl, pageData{Title: "Sign in", Email: email, Error: err.Error()})
		return
	}

	s.logger.Info("Login succeeded", "email", email)
	s.startSession(w, email)
	http.Redirect(w, r, "/my-rooms", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, registerTmpl, pageData{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	confirm := r.PostForm.Get("confirmPassword")

	data := pageData{Title: "Register", Email: email}
	switch {
	case email == "" || password == "":
		data.Error = "Email and password are required"
	case password != confirm:
		data.Mismatch = true
	default:
		err := s.store.AddUser(email, password)
		switch {
		case err == nil:
			s.logger.Info("Account registered", "email", email)
			s.startSession(w, email)
			http.Redirect(w, r, "/my-rooms", http.StatusSeeOther)
			return
		case errors.Is(err, entity.ErrDuplicateRegistration):
			data.Duplicate = true
		default:
			s.logger.Error("Registration failed", "email", email, "error", err)
			data.Error = "Registration failed"
		}
	}

	s.logger.Info("Registration rejected", "email", email, "mismatch", data.Mismatch, "duplicate", data.Duplicate)
	s.render(w, registerTmpl, data)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := s.sessionToken(r); ok {
		s.store.EndSession(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value(userKey{}).(string)
	s.render(w, roomsTmpl, pageData{Title: "My Rooms", Email: email})
}

func (s *Server) startSession(w http.ResponseWriter, email string) {
	value, err := s.cookies.Encode(sessionCookie, s.store.StartSession(email))
	if err != nil {
		s.logger.Error("Session cookie encoding failed", "email", email, "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken returns the token from a valid session cookie; tampered or
// foreign cookies are treated as absent.
func (s *Server) sessionToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	var token string
	if err := s.cookies.Decode(sessionCookie, c.Value, &token); err != nil {
		return "", false
	}
	return token, true
}

func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("Render failed", "title", data.Title, "error", err)
	}
}
