// Package state tracks the load status of each data-driven page so the
// UI renders loading, error and success conditions from one place.
package state

import "sync"

type Page string

const (
	PageSearch           Page = "search"
	PageCollections      Page = "collections"
	PageCollectionDetail Page = "collectionDetail"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// FallbackError is shown when a load fails without a server message.
const FallbackError = "Something went wrong."

type PageViewState struct {
	Status Status
	Error  string
}

// Tracker holds one view state per tracked page. The page set is closed
// at construction; writes to unknown pages are ignored.
type Tracker struct {
	mu    sync.Mutex
	pages map[Page]PageViewState
}

func NewTracker() *Tracker {
	return &Tracker{
		pages: map[Page]PageViewState{
			PageSearch:           {Status: StatusIdle},
			PageCollections:      {Status: StatusIdle},
			PageCollectionDetail: {Status: StatusIdle},
		},
	}
}

// SetStatus updates page's status. A failed status without a message
// gets the fallback; any other status clears the message.
func (t *Tracker) SetStatus(page Page, status Status, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pages[page]; !ok {
		return
	}

	vs := PageViewState{Status: status}
	if status == StatusFailed {
		if errMsg == "" {
			errMsg = FallbackError
		}
		vs.Error = errMsg
	}
	t.pages[page] = vs
}

// ResetPage returns page to idle so a later re-entry does not flash
// stale content while a fresh load is pending.
func (t *Tracker) ResetPage(page Page) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pages[page]; !ok {
		return
	}
	t.pages[page] = PageViewState{Status: StatusIdle}
}

// Get returns the current view state for page.
func (t *Tracker) Get(page Page) PageViewState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pages[page]
}
