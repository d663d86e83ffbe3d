// Package paginate holds the pagination math shared by listing endpoints
// and the stateful pager used by API consumers.
package paginate

import (
	"strconv"
	"sync"
)

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 10
	// MaxLimit caps the requested page size.
	MaxLimit = 100
)

// Envelope is the wire shape of a paginated listing response.
type Envelope struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
}

// Params is a normalized page/limit/query triple.
type Params struct {
	Page  int
	Limit int
	Query string
}

// ParseParams normalizes raw query-string values. Page defaults to 1,
// limit to DefaultLimit clamped to [1, MaxLimit].
func ParseParams(pageStr, limitStr, query string) Params {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Query: query}
}

// Offset returns the SQL offset for the params.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit), never less than 1.
func TotalPages(total, limit int) int {
	if limit < 1 {
		return 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}

// State is a paginated list controller: current query, page and limit,
// plus the last committed result envelope. Changing the query or the
// page size resets the page to 1. Fetches are correlated with a
// generation counter: a result committed after the inputs have changed
// again is discarded, so only the fetch matching the current inputs
// ever lands (last-request-wins by suppression).
type State struct {
	mu       sync.Mutex
	query    string
	page     int
	limit    int
	total    int
	gen      uint64
	inFlight bool
	last     *Envelope
}

// NewState creates a controller on page 1 with the given page size.
func NewState(limit int) *State {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return &State{page: 1, limit: limit}
}

// Params returns the current page/limit/query snapshot.
func (s *State) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Params{Page: s.page, Limit: s.limit, Query: s.query}
}

// Page returns the current 1-based page.
func (s *State) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalPages returns the page count derived from the last committed total.
func (s *State) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalPages(s.total, s.limit)
}

// Last returns the last committed envelope, or nil before the first commit.
func (s *State) Last() *Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// SetQuery replaces the search query. A changed query resets the page to 1
// and invalidates any in-flight fetch.
func (s *State) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q == s.query {
		return
	}
	s.query = q
	s.page = 1
	s.bumpLocked()
}

// SetLimit replaces the page size, resetting the page to 1.
func (s *State) SetLimit(limit int) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit == s.limit {
		return
	}
	s.limit = limit
	s.page = 1
	s.bumpLocked()
}

// Next advances one page. Returns false at the last page or while a fetch
// is in flight.
func (s *State) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight || s.page >= TotalPages(s.total, s.limit) {
		return false
	}
	s.page++
	s.bumpLocked()
	return true
}

// Prev goes back one page. Returns false at page 1 or while a fetch is
// in flight.
func (s *State) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight || s.page <= 1 {
		return false
	}
	s.page--
	s.bumpLocked()
	return true
}

// Busy reports whether a fetch is outstanding.
func (s *State) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Begin snapshots the inputs for a fetch and returns the generation token
// the eventual Commit or Fail must present.
func (s *State) Begin() (Params, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = true
	return Params{Page: s.page, Limit: s.limit, Query: s.query}, s.gen
}

// Commit stores the fetched envelope if gen still matches the current
// inputs. A stale generation is discarded and Commit returns false.
func (s *State) Commit(gen uint64, env Envelope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.inFlight = false
	s.total = env.Total
	s.last = &env
	return true
}

// Fail clears the in-flight marker for the fetch identified by gen.
func (s *State) Fail(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.inFlight = false
}

// bumpLocked invalidates outstanding fetches after an input change.
// Callers must hold s.mu.
func (s *State) bumpLocked() {
	s.gen++
	s.inFlight = false
}
