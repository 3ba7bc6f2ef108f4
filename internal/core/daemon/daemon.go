package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/seeds"
)

// DefaultInterval is how often the remote club feed is polled
const DefaultInterval = 15 * time.Minute

// Fetcher returns the club's published sessions
type Fetcher interface {
	FetchSessions(ctx context.Context) ([]models.Session, error)
}

// Daemon keeps a Catalog fresh while a server is running: it reloads the
// seeds file when it changes and imports the remote feed on a ticker.
type Daemon struct {
	catalog   *catalog.Catalog
	remote    Fetcher // nil disables polling
	seedsPath string
	interval  time.Duration
	now       func() time.Time
	logger    *log.Logger

	mu    sync.Mutex
	stats Stats
}

// Stats tracks daemon activity
type Stats struct {
	StartTime      time.Time
	SessionsSynced int
	SeedReloads    int
	LastSync       time.Time
	LastSeedReload time.Time
	Errors         int
}

type Options struct {
	Remote    Fetcher
	SeedsPath string
	Interval  time.Duration
	Logger    *log.Logger
	Now       func() time.Time
}

func New(cat *catalog.Catalog, opts Options) *Daemon {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Daemon{
		catalog:   cat,
		remote:    opts.Remote,
		seedsPath: opts.SeedsPath,
		interval:  opts.Interval,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// Start runs until ctx is cancelled
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	d.stats.StartTime = d.now()
	d.mu.Unlock()

	d.logger.Printf("daemon starting")

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if d.seedsPath != "" {
		watcher, err := d.watchSeeds()
		if err != nil {
			d.logger.Printf("Warning: not watching seeds file: %v", err)
		} else {
			defer watcher.Close()
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	}

	var tick <-chan time.Time
	if d.remote != nil {
		if _, err := d.SyncRemote(ctx); err != nil {
			d.logger.Printf("Warning: initial sync failed: %v", err)
		}
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Printf("daemon shutting down")
			return nil

		case <-tick:
			if _, err := d.SyncRemote(ctx); err != nil {
				d.logger.Printf("remote sync failed: %v", err)
			}

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if d.isSeedsEvent(event) {
				if err := d.ReloadSeeds(); err != nil {
					d.logger.Printf("seeds reload failed: %v", err)
				}
			}

		case err, ok := <-watchErrs:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			d.logger.Printf("watcher error: %v", err)
			d.recordError()
		}
	}
}

// watchSeeds watches the seeds file's directory, since editors replace
// files rather than writing them in place
func (d *Daemon) watchSeeds() (*fsnotify.Watcher, error) {
	dir := filepath.Dir(d.seedsPath)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("watch path does not exist: %s", dir)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return watcher, nil
}

func (d *Daemon) isSeedsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(d.seedsPath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// ReloadSeeds re-reads the bundled and user seeds into the catalog. A
// malformed file keeps the previous seeds.
func (d *Daemon) ReloadSeeds() error {
	set, err := seeds.Load(d.seedsPath, d.now())
	if err != nil {
		d.recordError()
		return err
	}
	d.catalog.SetSeeds(set.Sessions, set.Workouts)

	d.mu.Lock()
	d.stats.SeedReloads++
	d.stats.LastSeedReload = d.now()
	d.mu.Unlock()

	d.logger.Printf("reloaded %d seed session(s)", len(set.Sessions))
	return nil
}

// SyncRemote imports the remote feed and returns how many sessions were new
func (d *Daemon) SyncRemote(ctx context.Context) (int, error) {
	if d.remote == nil {
		return 0, nil
	}
	fetched, err := d.remote.FetchSessions(ctx)
	if err != nil {
		d.recordError()
		return 0, err
	}
	added, err := d.catalog.Import(ctx, fetched, d.now())
	if err != nil {
		d.recordError()
		return added, err
	}

	d.mu.Lock()
	d.stats.SessionsSynced += added
	d.stats.LastSync = d.now()
	d.mu.Unlock()

	if added > 0 {
		d.logger.Printf("synced %d new session(s)", added)
	}
	return added, nil
}

func (d *Daemon) recordError() {
	d.mu.Lock()
	d.stats.Errors++
	d.mu.Unlock()
}

// GetStats returns a copy of the current counters
func (d *Daemon) GetStats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}
