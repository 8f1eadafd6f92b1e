// Package sweeper runs the periodic reclamation passes: long-dead session
// rows, expired "sent" connection requests, and stale liveness pings. The
// read paths already treat all of these as gone; the sweeps only bound
// storage.
package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/store"
)

type Sweeper struct {
	store store.Store
	clock store.Clock

	interval           time.Duration
	sessionDeleteAfter time.Duration
	connectionExpiry   time.Duration
	pingExpiry         time.Duration

	ticker *time.Ticker
	done   chan bool
}

func New(st store.Store, clock store.Clock, interval, sessionDeleteAfter, connectionExpiry, pingExpiry time.Duration) *Sweeper {
	if clock == nil {
		clock = store.RealClock{}
	}
	return &Sweeper{
		store:              st,
		clock:              clock,
		interval:           interval,
		sessionDeleteAfter: sessionDeleteAfter,
		connectionExpiry:   connectionExpiry,
		pingExpiry:         pingExpiry,
		done:               make(chan bool),
	}
}

// Start begins the sweep loop.
func (s *Sweeper) Start() {
	s.ticker = time.NewTicker(s.interval)
	log.Printf("Sweeper started, running every %v", s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.Sweep(context.Background())
			case <-s.done:
				return
			}
		}
	}()
}

// Stop stops the sweep loop.
func (s *Sweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.done <- true
	log.Println("Sweeper stopped")
}

// Sweep runs one reclamation pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	sessions, err := s.store.DeleteSessionsIdleSince(ctx, now.Add(-s.sessionDeleteAfter))
	if err != nil {
		log.Printf("Failed to sweep idle sessions: %v", err)
	}

	requests, err := s.store.DeleteExpiredConnectionRequests(ctx, now.Add(-s.connectionExpiry))
	if err != nil {
		log.Printf("Failed to sweep expired connection requests: %v", err)
	}

	pings, err := s.store.DeleteExpiredLivenessPings(ctx, now.Add(-s.pingExpiry))
	if err != nil {
		log.Printf("Failed to sweep stale liveness pings: %v", err)
	}

	if sessions+requests+pings > 0 {
		log.Printf("Sweep reclaimed %d sessions, %d connection requests, %d pings", sessions, requests, pings)
	}
}
