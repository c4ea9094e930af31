package app

import "github.com/ka2n/scrapeview/api"

// State is everything the screen shows that is not layout.
// Transitions are pure: they take a State and return the next one.
type State struct {
	// URL is the current content of the input field
	URL string

	// Items is empty or exactly the most recent successful fetch result
	Items []api.ScrapedItem

	// Loading is set while a submit or delete-all is in flight. Every
	// action is refused until it clears.
	Loading bool

	// Err is the failure of the last action, cleared when the next one starts
	Err error
}

// Idle reports whether a new action may start
func (s State) Idle() bool {
	return !s.Loading
}

// WithURL replaces the input field content. Editing is refused while loading.
func WithURL(s State, url string) State {
	if s.Loading {
		return s
	}
	s.URL = url
	return s
}

// BeginSubmit clears the input and enters Loading. It returns the URL to
// submit and false if an action is already in flight.
func BeginSubmit(s State) (State, string, bool) {
	if s.Loading {
		return s, "", false
	}
	url := s.URL
	s.URL = ""
	s.Loading = true
	s.Err = nil
	return s, url, true
}

// SubmitFinished handles the end of a submit. On success the state stays in
// Loading and the caller must refresh the list; the returned flag says so.
func SubmitFinished(s State, err error) (State, bool) {
	if err != nil {
		s.Loading = false
		s.Err = err
		return s, false
	}
	return s, true
}

// BeginFetch starts a user-requested list refresh. Fetching does not enter
// Loading, but is refused while another action is in flight.
func BeginFetch(s State) (State, bool) {
	if s.Loading {
		return s, false
	}
	s.Err = nil
	return s, true
}

// FetchFinished replaces the items wholesale on success and keeps them
// untouched on failure. A refresh that follows a submit also leaves Loading.
func FetchFinished(s State, items []api.ScrapedItem, err error, afterSubmit bool) State {
	if afterSubmit {
		s.Loading = false
	}
	if err != nil {
		s.Err = err
		return s
	}
	if items == nil {
		items = []api.ScrapedItem{}
	}
	s.Items = items
	return s
}

// BeginDeleteAll enters Loading for a bulk delete, or returns false if an
// action is already in flight.
func BeginDeleteAll(s State) (State, bool) {
	if s.Loading {
		return s, false
	}
	s.Loading = true
	s.Err = nil
	return s, true
}

// DeleteAllFinished clears the items on success and always leaves Loading.
func DeleteAllFinished(s State, err error) State {
	s.Loading = false
	if err != nil {
		s.Err = err
		return s
	}
	s.Items = []api.ScrapedItem{}
	return s
}
