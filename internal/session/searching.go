package session

import (
	"playcraft/internal/search"
)

// activeTarget returns the search box the current screen shows, if any
func (s *Session) activeTarget() (Target, bool) {
	switch m := s.mode.(type) {
	case Selecting:
		return MainSearch, true
	case Detail:
		return AddSearch, m.Editing
	case List:
		return 0, false
	}
	return 0, false
}

// SetQuery updates the text of the search box on screen. The search runs
// once the text settles.
func (s *Session) SetQuery(text string) error {
	t, ok := s.activeTarget()
	if !ok {
		return s.wrongMode("search")
	}
	s.queries[t].Set(text)
	return nil
}

// Query returns the text of the search box on screen
func (s *Session) Query() string {
	t, ok := s.activeTarget()
	if !ok {
		return ""
	}
	return s.queries[t].Input()
}

// ClearQuery empties the search box on screen along with its results
func (s *Session) ClearQuery() error {
	t, ok := s.activeTarget()
	if !ok {
		return s.wrongMode("clear the search")
	}
	s.resetSearch(t)
	return nil
}

// Results returns the state of the search box on screen
func (s *Session) Results() (search.State, bool) {
	t, ok := s.activeTarget()
	if !ok {
		return search.State{}, false
	}
	return s.fetchers[t].State(), true
}

// Fetcher returns the fetcher behind a search box
func (s *Session) Fetcher(t Target) *search.Fetcher {
	return s.fetchers[t]
}

// BeginSettled starts the first-page fetch for a query delivered by
// Options.OnSettle. It returns a nil request when the query no longer applies
// because the screen changed or the text moved on, and for an empty query,
// which clears the results instead.
func (s *Session) BeginSettled(t Target, query string) (*search.Request, error) {
	if active, ok := s.activeTarget(); !ok || active != t {
		return nil, nil
	}
	if s.queries[t].Value() != query {
		return nil, nil
	}
	return s.fetchers[t].Begin(query, 0, search.Replace)
}

// BeginMore starts fetching the next page for the search box on screen
func (s *Session) BeginMore() (*search.Request, Target, error) {
	t, ok := s.activeTarget()
	if !ok {
		return nil, 0, s.wrongMode("load more results")
	}
	req, err := s.fetchers[t].BeginMore()
	return req, t, err
}

// BeginRetry re-issues the failed fetch of the search box on screen
func (s *Session) BeginRetry() (*search.Request, Target, error) {
	t, ok := s.activeTarget()
	if !ok {
		return nil, 0, s.wrongMode("retry the search")
	}
	req, err := s.fetchers[t].BeginRetry()
	return req, t, err
}
