package ui

import "sync"

// location follows the document shown in the main frame. A document the
// navigation gate refused leaves current untouched and marks the window
// blocked until the backend has brought it back to an allowed page.
type location struct {
	lock sync.Mutex

	startURL    string
	current     string
	lastAllowed string
	// returning is the page we sent the window back to; if that page leads to
	// a refused document again we give up on it and use the start page
	returning string
	blocked   bool
}

func newLocation(startURL string) *location {
	return &location{startURL: startURL, current: startURL, lastAllowed: startURL}
}

// begin records the page the window is opened on. The caller has already
// passed it through the gate.
func (l *location) begin(url string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.current = url
	l.lastAllowed = url
	l.returning = ""
	l.blocked = false
}

// arrive records a new main frame document. It returns the URL the window
// must be sent back to, or "" when the document may stay.
func (l *location) arrive(url string, allowed bool) string {
	l.lock.Lock()
	defer l.lock.Unlock()

	if allowed {
		l.current = url
		l.lastAllowed = url
		l.blocked = false
		if url != l.returning {
			l.returning = ""
		}
		return ""
	}

	l.blocked = true
	back := l.lastAllowed
	if l.returning != "" {
		back = l.startURL
		l.lastAllowed = l.startURL
	}
	l.returning = back
	return back
}

func (l *location) state() (current string, blocked bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.current, l.blocked
}

func (l *location) url() string {
	current, _ := l.state()
	return current
}
