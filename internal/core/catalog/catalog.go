// Package catalog merges bundled seeds with user-authored sessions and
// applies joining rules.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neilberkman/runclub/internal/core/builder"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/search"
	"github.com/neilberkman/runclub/internal/core/seeds"
	"github.com/neilberkman/runclub/internal/core/store"
)

var (
	ErrReadOnly     = errors.New("session is read-only")
	ErrNotJoinable  = errors.New("session is reserved to its host group")
	ErrUnknownGroup = errors.New("pace group is not offered by this session")
)

// Catalog is the session list a runner browses
type Catalog struct {
	sessions *store.Sessions
	joined   *store.Joined

	mu       sync.RWMutex // guards seeds, seedIDs and workouts
	seeds    []models.Session
	seedIDs  map[string]bool
	workouts search.WorkoutLookup
	logger   *log.Logger
	ids      builder.IDGenerator
}

// JoinedEntry is a joined session with the group the runner picked
type JoinedEntry struct {
	Session models.Session `json:"session"`
	GroupID string         `json:"groupId"`
}

func New(sessions *store.Sessions, joined *store.Joined, seedSessions []models.Session, workouts map[string]models.Workout, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	c := &Catalog{
		sessions: sessions,
		joined:   joined,
		logger:   logger,
		ids:      builder.UUIDGenerator{},
	}
	c.SetSeeds(seedSessions, workouts)
	return c
}

// SetSeeds swaps the bundled sessions and workouts, e.g. after the seeds
// file changed on disk
func (c *Catalog) SetSeeds(seedSessions []models.Session, workouts map[string]models.Workout) {
	seedIDs := make(map[string]bool, len(seedSessions))
	for _, s := range seedSessions {
		seedIDs[s.ID] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seeds = seedSessions
	c.seedIDs = seedIDs
	c.workouts = search.WorkoutLookup(workouts)
}

// Workouts returns the workout lookup used for type derivation
func (c *Catalog) Workouts() search.WorkoutLookup {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workouts
}

// IsSeed reports whether id names a bundled session
func (c *Catalog) IsSeed(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seedIDs[id]
}

// Load returns seeds shifted to their next occurrence followed by stored
// sessions. A store failure is logged and only seeds are returned.
func (c *Catalog) Load(ctx context.Context, now time.Time) ([]models.Session, error) {
	var shifted, stored []models.Session

	c.mu.RLock()
	bundled, seedIDs := c.seeds, c.seedIDs
	c.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shifted = seeds.ShiftAll(bundled, now)
		return nil
	})
	g.Go(func() error {
		all, err := c.sessions.GetAll(gctx, now)
		if err != nil {
			c.logger.Printf("catalog: reading stored sessions failed, showing seeds only: %v", err)
			return nil
		}
		stored = all
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Session, 0, len(shifted)+len(stored))
	out = append(out, shifted...)
	for _, s := range stored {
		if seedIDs[s.ID] {
			c.logger.Printf("catalog: stored session %s shadows a seed id, skipping it", s.ID)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// Find returns upcoming sessions matching filters, best pace match first
func (c *Catalog) Find(ctx context.Context, filters models.FilterState, paces *models.ReferencePaces, now time.Time) ([]models.Session, error) {
	all, err := c.Load(ctx, now)
	if err != nil {
		return nil, err
	}
	return search.ApplyFiltersAndSorting(all, filters, paces, c.options(now)), nil
}

// Search parses a token query (see search.ParseQuery) and runs Find,
// additionally matching the query's free text
func (c *Catalog) Search(ctx context.Context, query string, paces *models.ReferencePaces, now time.Time) ([]models.Session, error) {
	filters, text := search.ParseQuery(query, now)
	found, err := c.Find(ctx, filters, paces, now)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return found, nil
	}

	out := found[:0]
	for _, s := range found {
		if search.MatchesText(s, text) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Catalog) options(now time.Time) search.Options {
	return search.Options{Now: now, Workouts: c.Workouts()}
}

// Get returns the session with id, past or upcoming
func (c *Catalog) Get(ctx context.Context, id string, now time.Time) (models.Session, error) {
	all, err := c.Load(ctx, now)
	if err != nil {
		return models.Session{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Session{}, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
}

// CanJoin reports whether a runner of runnerGroup may join s. Members-only
// sessions are open to their host group and always to custom sessions.
func CanJoin(s models.Session, runnerGroup string) bool {
	if s.Visibility != models.VisibilityMembers {
		return true
	}
	if s.IsCustom {
		return true
	}
	host := strings.TrimSpace(s.HostGroupName)
	return host != "" && strings.EqualFold(host, strings.TrimSpace(runnerGroup))
}

// Join records the runner in groupID of session id. An empty groupID picks
// the recommended group when it is offered, else the first offered one.
func (c *Catalog) Join(ctx context.Context, id, groupID, runnerGroup string, now time.Time) (models.JoinedSession, error) {
	s, err := c.Get(ctx, id, now)
	if err != nil {
		return models.JoinedSession{}, err
	}
	if !CanJoin(s, runnerGroup) {
		return models.JoinedSession{}, fmt.Errorf("join %s: %w", id, ErrNotJoinable)
	}

	offered := s.OfferedGroups()
	if groupID == "" {
		groupID = defaultGroup(s.RecommendedGroupID, offered)
	}
	if !containsGroup(offered, groupID) {
		return models.JoinedSession{}, fmt.Errorf("join %s group %q: %w", id, groupID, ErrUnknownGroup)
	}

	if err := c.joined.Join(ctx, id, groupID); err != nil {
		return models.JoinedSession{}, err
	}
	return models.JoinedSession{SessionID: id, GroupID: groupID}, nil
}

func defaultGroup(recommended string, offered []models.PaceGroup) string {
	if containsGroup(offered, recommended) {
		return recommended
	}
	if len(offered) > 0 {
		return offered[0].ID
	}
	return ""
}

func containsGroup(groups []models.PaceGroup, id string) bool {
	if id == "" {
		return false
	}
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// Leave forgets the runner's group for session id
func (c *Catalog) Leave(ctx context.Context, id string) (bool, error) {
	return c.joined.Leave(ctx, id)
}

// Joined lists joined sessions that still exist
func (c *Catalog) Joined(ctx context.Context, now time.Time) ([]JoinedEntry, error) {
	entries, err := c.joined.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := c.Load(ctx, now)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Session, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}

	var out []JoinedEntry
	for _, e := range entries {
		s, ok := byID[e.SessionID]
		if !ok {
			c.logger.Printf("catalog: joined session %s no longer exists", e.SessionID)
			continue
		}
		out = append(out, JoinedEntry{Session: s, GroupID: e.GroupID})
	}
	return out, nil
}

// Create builds and stores a session, then joins its creator to the default
// group when there is one
func (c *Catalog) Create(ctx context.Context, form builder.Form, now time.Time) (builder.Result, error) {
	res, err := builder.Build(form, now, c.ids)
	if err != nil {
		return builder.Result{}, err
	}
	created, err := c.sessions.Create(ctx, res.Session)
	if err != nil {
		return builder.Result{}, err
	}
	res.Session = created

	if res.DefaultGroupID != "" {
		if err := c.joined.Join(ctx, created.ID, res.DefaultGroupID); err != nil {
			return res, fmt.Errorf("auto-join %s: %w", created.ID, err)
		}
	}
	return res, nil
}

// Import stores sessions fetched elsewhere, skipping ids already known.
// It returns how many were added.
func (c *Catalog) Import(ctx context.Context, sessions []models.Session, now time.Time) (int, error) {
	existing, err := c.Load(ctx, now)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s.ID] = true
	}

	added := 0
	for _, s := range sessions {
		if known[s.ID] {
			continue
		}
		if _, err := c.sessions.Create(ctx, s); err != nil {
			if errors.Is(err, models.ErrInvalidInput) {
				c.logger.Printf("catalog: skipping imported session %s: %v", s.ID, err)
				continue
			}
			return added, err
		}
		known[s.ID] = true
		added++
	}
	return added, nil
}

// Update patches a stored session. Seeds are read-only.
func (c *Catalog) Update(ctx context.Context, id string, patch store.Patch, now time.Time) (models.Session, error) {
	if c.IsSeed(id) {
		return models.Session{}, fmt.Errorf("update %s: %w", id, ErrReadOnly)
	}
	updated, found, err := c.sessions.Update(ctx, id, patch, now)
	if err != nil {
		return models.Session{}, err
	}
	if !found {
		return models.Session{}, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return updated, nil
}

// Delete removes a stored session and the runner's membership in it.
// Seeds are read-only; an unknown id is a no-op.
func (c *Catalog) Delete(ctx context.Context, id string) (bool, error) {
	if c.IsSeed(id) {
		return false, fmt.Errorf("delete %s: %w", id, ErrReadOnly)
	}
	removed, err := c.sessions.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if _, err := c.joined.Leave(ctx, id); err != nil {
		return removed, fmt.Errorf("leave deleted session %s: %w", id, err)
	}
	return removed, nil
}
