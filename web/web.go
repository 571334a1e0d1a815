// Package web provides the embedded web UI for the Lox playground.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/lemonberrylabs/golox/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the web UI pages.
type Handler struct {
	store   *store.Store
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	NavActive string
	Data      any
}

// New creates a new web UI handler.
func New(s *store.Store) *Handler {
	return &Handler{
		store: s,
		funcMap: template.FuncMap{
			"sessionID":   sessionID,
			"timeAgo":     timeAgo,
			"formatTime":  formatTime,
			"statusClass": statusClass,
			"statusIcon":  statusIcon,
			"truncate":    truncate,
			"countLines":  countLines,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, navActive string, data any) error {
	// Parse templates fresh each time for the page-specific template
	// This avoids the Go template issue where define blocks conflict across pages
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pd := pageData{
		NavActive: navActive,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.sessionList)
	app.Post("/ui/sessions", h.createSession)
	app.Get("/ui/sessions/:id", h.sessionDetail)
	app.Post("/ui/sessions/:id/eval", h.evalSession)
	app.Post("/ui/sessions/:id/delete", h.deleteSession)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type sessionListContent struct {
	Sessions []*sessionView
}

type sessionView struct {
	*store.Session
	ID         string
	RunCount   int
	LastStatus string
	LastSource string
	LastRun    time.Time
}

type sessionDetailContent struct {
	Session *store.Session
	Entries []store.Entry
	Globals []string
}

// --- Handlers ---

func (h *Handler) sessionList(c *fiber.Ctx) error {
	sessions := h.store.ListSessions()

	views := make([]*sessionView, 0, len(sessions))
	for _, sess := range sessions {
		v := &sessionView{
			Session:  sess,
			ID:       sess.ID(),
			RunCount: sess.RunCount(),
		}
		if entries := sess.Transcript(); len(entries) > 0 {
			last := entries[len(entries)-1]
			v.LastStatus = last.Status
			v.LastSource = last.Source
			v.LastRun = last.Time
		}
		views = append(views, v)
	}

	return h.render(c, "sessions.html", "sessions", sessionListContent{
		Sessions: views,
	})
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	sess := h.store.CreateSession()
	return c.Redirect("/ui/sessions/" + sess.ID())
}

func (h *Handler) sessionDetail(c *fiber.Ctx) error {
	sess, err := h.store.GetSession(c.Params("id"))
	if err != nil {
		return c.Status(404).SendString("Session not found")
	}

	return h.render(c, "session.html", "sessions", sessionDetailContent{
		Session: sess,
		Entries: sess.Transcript(),
		Globals: sess.Globals(),
	})
}

func (h *Handler) evalSession(c *fiber.Ctx) error {
	sess, err := h.store.GetSession(c.Params("id"))
	if err != nil {
		return c.Status(404).SendString("Session not found")
	}

	// FormValue aliases the request buffer; the interpreter keeps slices of it.
	source := utils.CopyString(c.FormValue("source"))
	if strings.TrimSpace(source) != "" {
		sess.Eval(c.UserContext(), source)
	}
	return c.Redirect("/ui/sessions/" + sess.ID())
}

func (h *Handler) deleteSession(c *fiber.Ctx) error {
	if err := h.store.DeleteSession(c.Params("id")); err != nil {
		return c.Status(404).SendString("Session not found")
	}
	return c.Redirect("/ui")
}

// --- Template Helpers ---

func sessionID(name string) string {
	return strings.TrimPrefix(name, store.NamePrefix)
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func statusClass(status string) string {
	switch status {
	case "ok":
		return "status-ok"
	case "static_error":
		return "status-static"
	case "runtime_error":
		return "status-runtime"
	default:
		return ""
	}
}

func statusIcon(status string) template.HTML {
	switch status {
	case "ok":
		return "&#10003;"
	case "static_error":
		return "&#9888;"
	case "runtime_error":
		return "&#10007;"
	default:
		return "&#8226;"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}
