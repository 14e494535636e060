package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"blog/internal/app"
	"blog/internal/auth"
	"blog/internal/posts"
	"blog/internal/store"
	"blog/internal/util"
)

type Server struct {
	Store    *store.Store
	Sessions auth.SessionStore
	Cfg      app.Config
	Mux      *http.ServeMux
}

func NewServer(st *store.Store, sessions auth.SessionStore, cfg app.Config) *Server {
	s := &Server{Store: st, Sessions: sessions, Cfg: cfg, Mux: http.NewServeMux()}
	fs := http.FileServer(http.Dir("web/static"))
	s.Mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	// routes
	s.Mux.Handle("GET /{$}", s.withSession(http.HandlerFunc(s.handleIndex)))
	s.Mux.Handle("GET /login", s.withSession(http.HandlerFunc(s.handleLoginForm)))
	s.Mux.Handle("POST /login", s.withSession(http.HandlerFunc(s.handleLogin)))
	s.Mux.Handle("POST /logout", s.withSession(http.HandlerFunc(s.handleLogout)))
	s.Mux.Handle("GET /signup", s.withSession(http.HandlerFunc(s.handleSignupForm)))
	s.Mux.Handle("POST /signup", s.withSession(http.HandlerFunc(s.handleSignup)))
	s.Mux.Handle("GET /me", s.withSession(http.HandlerFunc(s.handleMe)))

	s.Mux.Handle("GET /posts/new", s.withSession(s.requireAuth(http.HandlerFunc(s.handlePostNew))))
	s.Mux.Handle("POST /posts", s.withSession(s.requireAuth(http.HandlerFunc(s.handlePostCreate))))
	s.Mux.Handle("DELETE /posts/{id}", s.withSession(s.requireAuth(http.HandlerFunc(s.handlePostDelete))))
	// plain HTML forms cannot send DELETE; same handler behind a POST route
	s.Mux.Handle("POST /posts/{id}/delete", s.withSession(s.requireAuth(http.HandlerFunc(s.handlePostDelete))))
	s.Mux.Handle("POST /posts/{id}/like", s.withSession(s.requireAuth(http.HandlerFunc(s.handleLike))))
	s.Mux.Handle("POST /posts/{id}/dislike", s.withSession(s.requireAuth(http.HandlerFunc(s.handleDislike))))

	s.Mux.Handle("GET /admin", s.withSession(s.requireAdmin(http.HandlerFunc(s.handleAdmin))))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.Mux.ServeHTTP(w, r) }

type pageData struct {
	Title   string
	Flash   string
	FlashOK bool
	Email   string
	Name    string
	IsAdmin bool
	Posts   []postVM
}

type postVM struct {
	ID                     string
	Title, Content, Author string
	Created                string
	Likes, Dislikes        int
	Liked, Disliked        bool
	CanDelete              bool
}

// ------------------------------------------------------------------------------
// ------------Index-------------------------------------------------------------
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())

	all, err := posts.List(s.Store)
	if err != nil {
		s.serverError(w, err)
		return
	}

	var data pageData
	data.Title = "Blog"
	s.fillUserMeta(r, &data)

	for _, p := range all {
		data.Posts = append(data.Posts, postVM{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Author:    p.AuthorName,
			Created:   p.CreatedAt.Format("2006-01-02 15:04"),
			Likes:     len(p.Likes),
			Dislikes:  len(p.Dislikes),
			Liked:     p.LikedBy(sess.Email),
			Disliked:  p.DislikedBy(sess.Email),
			CanDelete: sess.ID != "" && (sess.Role == auth.RoleAdmin || sess.Email == p.AuthorEmail),
		})
	}

	if r.URL.Query().Get("ok") == "1" {
		data.Flash = "Post created successfully"
		data.FlashOK = true
	}
	if msg := r.URL.Query().Get("err"); msg != "" {
		data.Flash = msg
	}

	util.Render(w, "index.html", data)
}

// ------------------------------------------------------------------------------
// ------------Login-------------------------------------------------------------
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	util.Render(w, "auth_login.html", map[string]any{
		"OK":    r.URL.Query().Get("ok") == "1",
		"Error": r.URL.Query().Get("err"),
		"Email": r.URL.Query().Get("email"),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	acct, err := auth.Login(s.Store, email, password)
	if err != nil {
		if errors.Is(err, store.ErrStorage) {
			s.serverError(w, err)
			return
		}
		msg := "Invalid email or password"
		if errors.Is(err, auth.ErrAdminNotConfigured) {
			msg = "Admin account has no password set"
		}
		http.Redirect(w, r, "/login?err="+url.QueryEscape(msg)+"&email="+url.QueryEscape(email), http.StatusSeeOther)
		return
	}

	sess := s.Sessions.Create(acct)
	log.Info().Str("email", acct.Email).Str("role", acct.Role).Msg("login ok")

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.signCookie(sess.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.Cfg.SessionLifetime),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ------------------------------------------------------------------------------
// ------------Logout------------------------------------------------------------
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		if sid, ok := s.verifyCookie(c.Value); ok {
			s.Sessions.Delete(sid)
		}
		c.MaxAge = -1
		c.Path = "/"
		http.SetCookie(w, c)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ------------------------------------------------------------------------------
// ------------Signup------------------------------------------------------------
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	util.Render(w, "auth_signup.html", map[string]any{
		"Error": r.URL.Query().Get("err"),
		"Email": r.URL.Query().Get("email"),
		"Name":  r.URL.Query().Get("name"),
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if err := auth.Signup(s.Store, name, email, password); err != nil {
		if errors.Is(err, store.ErrStorage) {
			s.serverError(w, err)
			return
		}
		msg := "Internal error"
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			msg = "Email already taken"
		case errors.Is(err, auth.ErrMissingFields):
			msg = "Missing fields"
		}
		http.Redirect(w, r, "/signup?err="+url.QueryEscape(msg)+"&email="+url.QueryEscape(email)+"&name="+url.QueryEscape(name), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/login?ok=1", http.StatusSeeOther)
}

// ------------------------------------------------------------------------------
// ------------Me----------------------------------------------------------------
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		w.Write([]byte("null"))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"email": sess.Email,
		"name":  sess.Name,
		"role":  sess.Role,
	})
}

// ------------------------------------------------------------------------------
// ------------Post create-------------------------------------------------------
func (s *Server) handlePostNew(w http.ResponseWriter, r *http.Request) {
	var data pageData
	data.Title = "New Post"
	s.fillUserMeta(r, &data)
	util.Render(w, "post_new.html", data)
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	_, err := posts.Create(s.Store, r.FormValue("title"), r.FormValue("content"), sess.Email, sess.Name)
	if err != nil {
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/?ok=1", http.StatusSeeOther)
}

// ------------------------------------------------------------------------------
// ------------Post delete-------------------------------------------------------
func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id := r.PathValue("id")

	err := posts.Delete(s.Store, id, sess.Email, sess.Role == auth.RoleAdmin)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, posts.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case err != nil:
		s.serverError(w, err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ------------------------------------------------------------------------------
// ------------Reactions---------------------------------------------------------
func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.react(w, r, posts.Like)
}

func (s *Server) handleDislike(w http.ResponseWriter, r *http.Request) {
	s.react(w, r, posts.Dislike)
}

func (s *Server) react(w http.ResponseWriter, r *http.Request, fn func(*store.Store, string, string) error) {
	sess, _ := auth.SessionFrom(r.Context())

	err := fn(s.Store, r.PathValue("id"), sess.Email)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case err != nil:
		s.serverError(w, err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ------------------------------------------------------------------------------
// ------------Admin-------------------------------------------------------------
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	admins, err := s.Store.Admins()
	if err != nil {
		s.serverError(w, err)
		return
	}
	users, err := s.Store.Users()
	if err != nil {
		s.serverError(w, err)
		return
	}
	all, err := posts.List(s.Store)
	if err != nil {
		s.serverError(w, err)
		return
	}

	var data pageData
	data.Title = "Admin"
	s.fillUserMeta(r, &data)
	for _, p := range all {
		data.Posts = append(data.Posts, postVM{
			ID:        p.ID,
			Title:     p.Title,
			Author:    p.AuthorName,
			Created:   p.CreatedAt.Format("2006-01-02 15:04"),
			Likes:     len(p.Likes),
			Dislikes:  len(p.Dislikes),
			CanDelete: true,
		})
	}

	type accountVM struct {
		Email, Name, Role string
	}
	var accounts []accountVM
	for _, a := range admins {
		accounts = append(accounts, accountVM{Email: a.Email, Name: a.Name, Role: auth.RoleAdmin})
	}
	for _, u := range users {
		accounts = append(accounts, accountVM{Email: u.Email, Name: u.Name, Role: auth.RoleUser})
	}

	util.Render(w, "admin.html", map[string]any{
		"Page":     data,
		"Accounts": accounts,
	})
}

// ------------------------------------------------------------------------------
// ------------Helpers-----------------------------------------------------------

func (s *Server) fillUserMeta(r *http.Request, data *pageData) {
	if sess, ok := auth.SessionFrom(r.Context()); ok {
		data.Email = sess.Email
		data.Name = sess.Name
		data.IsAdmin = sess.Role == auth.RoleAdmin
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
