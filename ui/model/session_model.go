package model

import (
	"time"
)

// SessionModel tracks how long the current image has been open and the
// accumulated time across all images opened in this run.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active              bool
	imageStart          time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration
	images              int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnImageLoaded closes the running image session, if any, and starts a new one.
func (m *SessionModel) OnImageLoaded(now time.Time) {
	if m == nil {
		return
	}
	if m.active {
		m.accumulated += now.Sub(m.imageStart)
	}
	m.active = true
	m.imageStart = now
	m.lastSessionDuration = 0
	m.images++
}

// OnTick updates the running session duration.
// Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(now time.Time) {
	if m == nil || !m.active {
		return
	}
	m.lastSessionDuration = now.Sub(m.imageStart)
}

// Values returns the current image duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Images returns how many images have been loaded.
func (m *SessionModel) Images() int {
	if m == nil {
		return 0
	}
	return m.images
}
