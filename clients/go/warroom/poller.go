package warroom

import (
	"context"
	"sync"
	"time"

	"github.com/founderhub/warroom-api/models"
)

// DefaultPollInterval is the cadence at which a room view re-fetches its
// snapshot.
const DefaultPollInterval = 5 * time.Second

// Poller keeps a local copy of a room snapshot in sync by re-fetching it on
// a fixed cadence and replacing it wholesale. Concurrent edits by other
// participants converge within one poll interval; nothing is merged
// client-side — the server snapshot always wins.
type Poller struct {
	client   *Client
	roomID   string
	interval time.Duration

	// OnUpdate, if set, is invoked from the polling goroutine after every
	// successful fetch.
	OnUpdate func(*models.Room)

	refresh chan struct{}

	mu       sync.Mutex
	snapshot *models.Room
	lastErr  error
}

// NewPoller creates a poller for the given room. A non-positive interval
// falls back to DefaultPollInterval.
func NewPoller(client *Client, roomID string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   client,
		roomID:   roomID,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
}

// Run fetches the snapshot immediately and then on every tick until ctx is
// cancelled. A failed poll records the error and waits for the next tick;
// it never stops the loop.
func (p *Poller) Run(ctx context.Context) {
	p.poll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		case <-p.refresh:
			p.poll()
		}
	}
}

// Refresh requests an immediate out-of-cadence fetch, so an actor sees
// their own successful mutation without waiting a full interval. Safe to
// call from any goroutine; never blocks.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest fetched room and the error of the most
// recent poll attempt. The room may be non-nil alongside a non-nil error
// when a stale snapshot is still available after a failed poll.
func (p *Poller) Snapshot() (*models.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot, p.lastErr
}

func (p *Poller) poll() {
	room, err := p.client.GetRoom(p.roomID)

	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.snapshot = room
	}
	p.mu.Unlock()

	if err == nil && p.OnUpdate != nil {
		p.OnUpdate(room)
	}
}
