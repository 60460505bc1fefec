// Package directory holds a user's search session over the advocate set: the
// full set loaded once, the active query, and the filtered view derived from
// them.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
)

// Session is one user's view of the directory. It is not safe for concurrent
// use; each request or terminal invocation owns its own Session.
type Session struct {
	all   []advocate.Advocate
	view  []advocate.Advocate
	query string
}

// NewSession starts with an empty query, so the view is the full set.
func NewSession(records []advocate.Advocate) *Session {
	if records == nil {
		records = []advocate.Advocate{}
	}
	s := &Session{all: records}
	s.Search("")
	return s
}

// Open loads the full set from src. A failing source is returned as is; there
// is no empty fallback.
func Open(ctx context.Context, src source.Source) (*Session, error) {
	records, err := src.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading advocates: %w", err)
	}
	return NewSession(records), nil
}

// Search replaces the view with the records matching query. The view is
// always a fresh copy, even for the empty query, so callers may modify it
// without touching the full set.
func (s *Session) Search(query string) []advocate.Advocate {
	s.query = strings.ToLower(query)
	s.view = advocate.Filter(s.all, s.query)
	return s.view
}

// Clear resets the query and shows the full set again.
func (s *Session) Clear() []advocate.Advocate {
	return s.Search("")
}

func (s *Session) Query() string { return s.query }

func (s *Session) View() []advocate.Advocate { return s.view }

// Rows is the view projected for display.
func (s *Session) Rows() []advocate.Row { return advocate.Rows(s.view) }

// Total is the size of the full set.
func (s *Session) Total() int { return len(s.all) }

// Matched is the size of the view.
func (s *Session) Matched() int { return len(s.view) }
