// Package api implements the REST API of the Lox playground server.
package api

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/lox"
	"github.com/lemonberrylabs/golox/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	app   *fiber.App
	store *store.Store
}

// Option configures a Server.
type Option func(*fiber.App)

// WithRequestLog logs every request to w.
func WithRequestLog(w io.Writer) Option {
	return func(app *fiber.App) {
		app.Use(logger.New(logger.Config{Output: w}))
	}
}

// New creates a new API server backed by s.
func New(s *store.Store, opts ...Option) *Server {
	srv := &Server{store: s}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	for _, opt := range opts {
		opt(app)
	}

	// One-shot tooling
	app.Post("/v1/run", srv.run)
	app.Post("/v1/tokens", srv.tokens)
	app.Post("/v1/ast", srv.syntaxTree)

	// Sessions API
	app.Post("/v1/sessions", srv.createSession)
	app.Get("/v1/sessions", srv.listSessions)
	app.Get("/v1/sessions/:id", srv.getSession)
	app.Delete("/v1/sessions/:id", srv.deleteSession)
	app.Post("/v1/sessions/:id/eval", srv.evalSession)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

type sourceRequest struct {
	Source *string `json:"source"`
}

// parseSource reads the required "source" field of a JSON body.
func parseSource(c *fiber.Ctx) (string, error) {
	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apiError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body: "+err.Error())
	}
	if req.Source == nil {
		return "", apiError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "source is required")
	}
	return *req.Source, nil
}

// errHandled marks a request whose error response has already been written.
var errHandled = errors.New("response written")

func apiError(c *fiber.Ctx, code int, status, message string) error {
	if err := c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	}); err != nil {
		return err
	}
	return errHandled
}

// respond finishes a handler whose parse step may already have written an
// error response.
func respond(err error) error {
	if errors.Is(err, errHandled) {
		return nil
	}
	return err
}

// --- Tooling Handlers ---

func (s *Server) run(c *fiber.Ctx) error {
	source, err := parseSource(c)
	if err != nil {
		return respond(err)
	}
	return c.JSON(s.store.Run(c.UserContext(), source))
}

func (s *Server) tokens(c *fiber.Ctx) error {
	source, err := parseSource(c)
	if err != nil {
		return respond(err)
	}

	tokens, ds := lox.Tokens(source)
	items := make([]fiber.Map, len(tokens))
	for i, tok := range tokens {
		items[i] = fiber.Map{
			"type":   tok.Type.String(),
			"lexeme": tok.Lexeme,
			"line":   tok.Line,
		}
	}
	return c.JSON(fiber.Map{
		"tokens":      items,
		"diagnostics": diagnosticsToJSON(ds),
	})
}

func (s *Server) syntaxTree(c *fiber.Ctx) error {
	source, err := parseSource(c)
	if err != nil {
		return respond(err)
	}

	stmts, ds := lox.Parse(source)
	return c.JSON(fiber.Map{
		"ast":         ast.Sprint(stmts),
		"diagnostics": diagnosticsToJSON(ds),
	})
}

// --- Session Handlers ---

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.store.CreateSession()
	return c.Status(fiber.StatusOK).JSON(sessionToJSON(sess, false))
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions := s.store.ListSessions()

	items := make([]fiber.Map, len(sessions))
	for i, sess := range sessions {
		items[i] = sessionToJSON(sess, false)
	}
	return c.JSON(fiber.Map{
		"sessions": items,
	})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	sess, err := s.store.GetSession(c.Params("id"))
	if err != nil {
		return respond(notFound(c, err))
	}
	return c.JSON(sessionToJSON(sess, true))
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.store.DeleteSession(id); err != nil {
		return respond(notFound(c, err))
	}
	return c.JSON(fiber.Map{
		"name": store.NamePrefix + id,
		"done": true,
	})
}

func (s *Server) evalSession(c *fiber.Ctx) error {
	sess, err := s.store.GetSession(c.Params("id"))
	if err != nil {
		return respond(notFound(c, err))
	}
	source, err := parseSource(c)
	if err != nil {
		return respond(err)
	}
	return c.JSON(sess.Eval(c.UserContext(), source))
}

func notFound(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apiError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}
	return apiError(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
}

func sessionToJSON(sess *store.Session, withTranscript bool) fiber.Map {
	result := fiber.Map{
		"name":       sess.Name,
		"createTime": sess.CreateTime.Format(time.RFC3339Nano),
		"runCount":   sess.RunCount(),
	}
	if withTranscript {
		result["entries"] = sess.Transcript()
		result["globals"] = sess.Globals()
	}
	return result
}

func diagnosticsToJSON(ds []diag.Diagnostic) []fiber.Map {
	items := make([]fiber.Map, len(ds))
	for i, d := range ds {
		items[i] = fiber.Map{
			"line":    d.Line,
			"kind":    d.Kind.String(),
			"message": d.Message,
		}
	}
	return items
}
