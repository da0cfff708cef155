package helper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// ErrUnexpectedStatement is returned by FakeSession for statements nobody scripted.
var ErrUnexpectedStatement = errors.New("fake session: unexpected statement")

// FakeSession is a scripted dialect.Session. Queries answer with the rows registered
// for their exact text; Exec succeeds unless an error is registered for the statement.
type FakeSession struct {
	mu          sync.Mutex
	rows        map[string][][]any
	queryErrors map[string]error
	execErrors  map[string]error
	execHook    func(statement string)
	queried     []string
	executed    []string
	strictExec  bool
}

// NewFakeSession creates an empty FakeSession.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		rows:        make(map[string][][]any),
		queryErrors: make(map[string]error),
		execErrors:  make(map[string]error),
	}
}

// OnQuery scripts the rows query returns. No rows means an empty result.
func (s *FakeSession) OnQuery(query string, rows ...[]any) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[query] = rows

	return s
}

// OnQueryValue scripts a single-row, single-column result.
func (s *FakeSession) OnQueryValue(query string, value any) *FakeSession {
	return s.OnQuery(query, []any{value})
}

// OnQueryError scripts query to fail with err.
func (s *FakeSession) OnQueryError(query string, err error) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryErrors[query] = err

	return s
}

// OnExecError scripts statement to fail with err.
func (s *FakeSession) OnExecError(statement string, err error) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execErrors[statement] = err

	return s
}

// OnExec registers a hook that sees every successful Exec, e.g. to emulate session state.
func (s *FakeSession) OnExec(hook func(statement string)) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execHook = hook

	return s
}

// Query implements dialect.Session.
func (s *FakeSession) Query(_ context.Context, query string, _ ...any) (dialect.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queried = append(s.queried, query)

	if err, ok := s.queryErrors[query]; ok {
		return nil, err
	}

	rows, ok := s.rows[query]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatement, query)
	}

	return &fakeRows{rows: rows, pos: -1}, nil
}

// Exec implements dialect.Session.
func (s *FakeSession) Exec(_ context.Context, statement string, _ ...any) error {
	s.mu.Lock()
	s.executed = append(s.executed, statement)
	err, failing := s.execErrors[statement]
	hook := s.execHook
	s.mu.Unlock()

	if failing {
		return err
	}
	if hook != nil {
		hook(statement)
	}

	return nil
}

// Queried returns every query text seen so far.
func (s *FakeSession) Queried() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.queried)
}

// Executed returns every Exec statement seen so far, failed ones included.
func (s *FakeSession) Executed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.executed)
}

type fakeRows struct {
	rows   [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos+1 >= len(r.rows) {
		return false
	}
	r.pos++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return errors.New("fake session: scan without current row")
	}

	row := r.rows[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("fake session: expected %d destinations, got %d", len(row), len(dest))
	}

	for i, d := range dest {
		if scanner, ok := d.(sql.Scanner); ok {
			if err := scanner.Scan(row[i]); err != nil {
				return err
			}
			continue
		}

		if err := assign(d, row[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

func assign(dest, value any) error {
	switch d := dest.(type) {
	case *string:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("fake session: cannot scan %T into *string", value)
		}
		*d = v

	case *int64:
		switch v := value.(type) {
		case int64:
			*d = v
		case int:
			*d = int64(v)
		default:
			return fmt.Errorf("fake session: cannot scan %T into *int64", value)
		}

	case *any:
		*d = value

	default:
		return fmt.Errorf("fake session: unsupported destination %T", dest)
	}

	return nil
}
