// Package store provides in-memory storage for interpreter sessions.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/lox"
)

// NamePrefix starts every session resource name.
const NamePrefix = "sessions/"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// Diagnostic is the serialized form of a diag.Diagnostic.
type Diagnostic struct {
	Line    int    `json:"line"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// Entry is one evaluated piece of source and its outcome.
type Entry struct {
	Source      string       `json:"source"`
	Output      string       `json:"output"`
	Status      string       `json:"status"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Value is the echoed value of a lone expression entry, converted for
	// JSON. It is nil when nothing was echoed.
	Value any       `json:"value"`
	Time  time.Time `json:"time"`
}

// Session is a persistent REPL: globals defined by one Eval are visible to
// the next. Evals on the same session are serialized.
type Session struct {
	Name       string    `json:"name"`
	CreateTime time.Time `json:"createTime"`

	mu      sync.Mutex
	lox     *lox.Lox
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	entries []Entry
}

// ID returns the session name without its "sessions/" prefix.
func (s *Session) ID() string {
	return strings.TrimPrefix(s.Name, NamePrefix)
}

// Eval runs source as one REPL entry and appends it to the transcript.
func (s *Session) Eval(ctx context.Context, source string) Entry {
	// Callers may hand in strings that alias reused request buffers, and
	// the interpreter keeps slices of the source as names.
	source = strings.Clone(source)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stdout.Reset()
	s.stderr.Reset()
	status := s.lox.Run(ctx, source, lox.ModeREPL)

	entry := newEntry(source, s.stdout.String(), status, s.lox.Diagnostics())
	if v, ok := s.lox.Echo(); ok {
		entry.Value = v.ToGoValue()
	}
	s.entries = append(s.entries, entry)
	return entry
}

// Transcript returns a copy of the evaluated entries in order.
func (s *Session) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// RunCount returns the number of evaluated entries.
func (s *Session) RunCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Globals returns the names defined in the session's global environment.
func (s *Session) Globals() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lox.Globals()
}

// Store is a thread-safe in-memory storage for sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	loxOpts  []lox.Option
}

// New creates a new empty store. Every interpreter the store creates is
// configured with opts.
func New(opts ...lox.Option) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		loxOpts:  opts,
	}
}

// CreateSession creates a session with a fresh global environment.
func (s *Store) CreateSession() *Session {
	sess := &Session{
		Name:       NamePrefix + uuid.NewString(),
		CreateTime: time.Now(),
	}
	opts := append([]lox.Option{lox.WithStdout(&sess.stdout), lox.WithStderr(&sess.stderr)}, s.loxOpts...)
	sess.lox = lox.New(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Name] = sess
	return sess
}

// GetSession retrieves a session by its full name or bare ID.
func (s *Store) GetSession(name string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[canonicalName(name)]
	if !ok {
		return nil, fmt.Errorf("session '%s' %w", name, ErrNotFound)
	}
	return sess, nil
}

// ListSessions returns all sessions, oldest first.
func (s *Store) ListSessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreateTime.Equal(result[j].CreateTime) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreateTime.Before(result[j].CreateTime)
	})
	return result
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := canonicalName(name)
	if _, ok := s.sessions[key]; !ok {
		return fmt.Errorf("session '%s' %w", name, ErrNotFound)
	}
	delete(s.sessions, key)
	return nil
}

// Run executes source as a standalone script with its own interpreter.
func (s *Store) Run(ctx context.Context, source string) Entry {
	source = strings.Clone(source)
	var stdout, stderr bytes.Buffer
	opts := append([]lox.Option{lox.WithStdout(&stdout), lox.WithStderr(&stderr)}, s.loxOpts...)
	l := lox.New(opts...)
	status := l.Run(ctx, source, lox.ModeScript)
	return newEntry(source, stdout.String(), status, l.Diagnostics())
}

func canonicalName(name string) string {
	if strings.HasPrefix(name, NamePrefix) {
		return name
	}
	return NamePrefix + name
}

func newEntry(source, output string, status lox.Status, ds []diag.Diagnostic) Entry {
	entry := Entry{
		Source:      source,
		Output:      output,
		Status:      status.String(),
		Diagnostics: make([]Diagnostic, 0, len(ds)),
		Time:        time.Now(),
	}
	for _, d := range ds {
		entry.Diagnostics = append(entry.Diagnostics, Diagnostic{
			Line:    d.Line,
			Kind:    d.Kind.String(),
			Message: d.Message,
			Text:    d.Error(),
		})
	}
	return entry
}
