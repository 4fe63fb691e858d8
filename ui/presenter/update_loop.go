package presenter

import "time"

// Loop drives periodic presenter updates from the Tk event loop.
//
// It calls Tick on the viewer presenter and invokes a scheduler callback
// that re-arms the next tick. The zero value is usable (methods are nil-safe).
type Loop struct {
	Viewer   *ViewerPresenter
	Schedule func()
	now      func() time.Time
}

func NewLoop(viewer *ViewerPresenter, schedule func()) *Loop {
	return &Loop{Viewer: viewer, Schedule: schedule, now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	if l.Viewer != nil {
		l.Viewer.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
