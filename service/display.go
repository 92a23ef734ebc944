package service

import (
	"sync"

	"pokedex-cards/models"
)

type displayState struct {
	cards        []models.CardFragment
	filterActive bool
	notice       *models.Notice
}

// DisplaySurface owns the rendered cards. Every mutation and read is executed by a
// single render loop goroutine, callers block until their operation has run.
type DisplaySurface struct {
	ops       chan func(*displayState)
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewDisplaySurface starts the render loop. Call Close to stop it.
func NewDisplaySurface() *DisplaySurface {
	d := &DisplaySurface{
		ops:     make(chan func(*displayState)),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go d.loop()
	return d
}

// Ensure DisplaySurface implements DisplayInterface
var _ DisplayInterface = (*DisplaySurface)(nil)

func (d *DisplaySurface) loop() {
	defer close(d.stopped)
	var state displayState
	for {
		select {
		case op := <-d.ops:
			op(&state)
		case <-d.quit:
			return
		}
	}
}

// do runs op on the render loop. Operations after Close are dropped.
func (d *DisplaySurface) do(op func(*displayState)) {
	done := make(chan struct{})
	select {
	case d.ops <- func(s *displayState) {
		op(s)
		close(done)
	}:
		<-done
	case <-d.quit:
	}
}

// Append adds a card after the ones already shown
func (d *DisplaySurface) Append(card models.CardFragment) {
	d.do(func(s *displayState) {
		s.cards = append(s.cards, card)
	})
}

// Clear removes every card
func (d *DisplaySurface) Clear() {
	d.do(func(s *displayState) {
		s.cards = nil
	})
}

// SetFilterActive shows or hides the "clear filter" button
func (d *DisplaySurface) SetFilterActive(active bool) {
	d.do(func(s *displayState) {
		s.filterActive = active
	})
}

// ShowNotice replaces the current notice
func (d *DisplaySurface) ShowNotice(kind models.NoticeKind, message string) {
	d.do(func(s *displayState) {
		s.notice = &models.Notice{Kind: kind, Message: message}
	})
}

// DismissNotice hides the current notice
func (d *DisplaySurface) DismissNotice() {
	d.do(func(s *displayState) {
		s.notice = nil
	})
}

// Snapshot returns a copy of what is currently displayed
func (d *DisplaySurface) Snapshot() models.DisplaySnapshot {
	var snap models.DisplaySnapshot
	d.do(func(s *displayState) {
		snap.Cards = append([]models.CardFragment(nil), s.cards...)
		snap.FilterActive = s.filterActive
		if s.notice != nil {
			n := *s.notice
			snap.Notice = &n
		}
	})
	return snap
}

// Close stops the render loop
func (d *DisplaySurface) Close() {
	d.closeOnce.Do(func() {
		close(d.quit)
	})
	<-d.stopped
}
