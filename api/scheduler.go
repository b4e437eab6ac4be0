/*
scheduler.go - Report cache janitor

PURPOSE:
  Cached reports are keyed by (company, window). Once the calendar moves
  into a new week every view resolves to a later window start, so the old
  entries can never be hit again. The janitor periodically drops them.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - A window is stale when it starts before the earliest window any view
    option can currently resolve to
  - Uses the handler clock so tests can move time

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the janitor is active (default: true)

USAGE:
  janitor := NewCacheJanitor(handler)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - report.go: Reporter and its cache
  - generic/cache.go: Cache.Prune
*/
package api

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warp/resource-planner/generic"
)

// CacheJanitor evicts report windows that have fallen behind the clock.
type CacheJanitor struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCacheJanitor creates a janitor for the handler's report cache.
func NewCacheJanitor(handler *Handler) *CacheJanitor {
	return &CacheJanitor{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the janitor.
func (cj *CacheJanitor) Start() {
	cj.mu.Lock()
	defer cj.mu.Unlock()

	if !cj.Enabled {
		log.Info().Msg("cache janitor disabled, not starting")
		return
	}
	if cj.ticker != nil {
		return
	}

	cj.ticker = time.NewTicker(cj.CheckInterval)
	cj.stop = make(chan struct{})
	cj.wg.Add(1)
	go cj.run()

	log.Info().Dur("interval", cj.CheckInterval).Msg("cache janitor started")
}

// Stop stops the janitor and waits for the loop to exit.
func (cj *CacheJanitor) Stop() {
	cj.mu.Lock()
	defer cj.mu.Unlock()

	if cj.ticker == nil {
		return
	}
	cj.ticker.Stop()
	close(cj.stop)
	cj.wg.Wait()
	cj.ticker = nil
	log.Info().Msg("cache janitor stopped")
}

func (cj *CacheJanitor) run() {
	defer cj.wg.Done()
	for {
		select {
		case <-cj.ticker.C:
			cj.RunNow()
		case <-cj.stop:
			return
		}
	}
}

// RunNow prunes stale windows immediately and returns how many went.
func (cj *CacheJanitor) RunNow() int {
	// Every view shares the same start week, so any earlier start is stale.
	current := generic.ResolvePeriod(generic.ViewOneMonth, cj.Handler.Now()).Start
	n := cj.Handler.Reports.Cache.Prune(func(k generic.CacheKey) bool {
		return k.Start.Before(current)
	})
	if n > 0 {
		log.Debug().Int("entries", n).Str("current_start", current.String()).Msg("pruned stale report windows")
	}
	return n
}
