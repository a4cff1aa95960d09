package autosave

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"boardcore/application/ports"
	"boardcore/domain/config"
	"boardcore/domain/core/aggregates"
	pkgerrors "boardcore/pkg/errors"

	"go.uber.org/zap"
)

const (
	// DefaultLocalInterval is the fast convenience tier's save cadence.
	DefaultLocalInterval = 15 * time.Second
	// DefaultRemoteInterval is the durable tier's save cadence.
	DefaultRemoteInterval = 120 * time.Second

	cacheKeyPrefix = "board:snapshot:"
)

// BoardSession is the live board the coordinator persists. The controller
// satisfies this; the coordinator never touches board internals directly.
type BoardSession interface {
	BoardID() aggregates.BoardID
	Snapshot() aggregates.Snapshot
	ApplyServerMetadata(title, description string, updatedAt time.Time)
}

// SaveState reports when each tier last persisted successfully.
// Zero times mean the tier has not saved yet this session.
type SaveState struct {
	LocalSavedAt  time.Time `json:"localSavedAt"`
	RemoteSavedAt time.Time `json:"remoteSavedAt"`
}

// Options tunes the coordinator's save cadence
type Options struct {
	LocalInterval  time.Duration
	RemoteInterval time.Duration
}

// Coordinator drives the two autosave tiers for one board session: a fast
// local cache write and a slower durable remote write, each on its own timer.
// Both tiers write full snapshots, so any individual save is idempotent and a
// failed write is simply retried at the next tick with no backoff.
type Coordinator struct {
	session BoardSession
	repo    ports.BoardRepository
	cache   ports.LocalCache
	logger  *zap.Logger

	localInterval  time.Duration
	remoteInterval time.Duration

	mu            sync.Mutex
	saving        bool
	pendingSave   bool
	nextSeq       uint64
	appliedSeq    uint64
	localSavedAt  time.Time
	remoteSavedAt time.Time
	lastRemoteErr error

	done    chan struct{}
	stopped sync.WaitGroup
	started bool
}

// NewCoordinator creates a coordinator for one board session. The cache may
// be nil, in which case the local tier is skipped entirely.
func NewCoordinator(session BoardSession, repo ports.BoardRepository, cache ports.LocalCache, opts Options, logger *zap.Logger) *Coordinator {
	if opts.LocalInterval <= 0 {
		opts.LocalInterval = DefaultLocalInterval
	}
	if opts.RemoteInterval <= 0 {
		opts.RemoteInterval = DefaultRemoteInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		session:        session,
		repo:           repo,
		cache:          cache,
		logger:         logger,
		localInterval:  opts.LocalInterval,
		remoteInterval: opts.RemoteInterval,
		done:           make(chan struct{}),
	}
}

// Run starts both autosave timers. It blocks until Stop is called or the
// context is cancelled; callers run it in its own goroutine.
func (c *Coordinator) Run(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.stopped.Add(1)
	defer c.stopped.Done()

	localTicker := time.NewTicker(c.localInterval)
	remoteTicker := time.NewTicker(c.remoteInterval)
	defer localTicker.Stop()
	defer remoteTicker.Stop()

	c.logger.Info("autosave started",
		zap.String("boardID", c.session.BoardID().String()),
		zap.Duration("localInterval", c.localInterval),
		zap.Duration("remoteInterval", c.remoteInterval),
	)

	for {
		select {
		case <-localTicker.C:
			c.saveLocal(ctx)
		case <-remoteTicker.C:
			if err := c.saveRemote(ctx); err != nil {
				c.logger.Error("remote autosave failed, will retry next tick",
					zap.String("boardID", c.session.BoardID().String()),
					zap.Error(err),
				)
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop halts both timers and waits for the run loop to exit. No timer
// outlives the session.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.mu.Unlock()
	c.stopped.Wait()
}

// Save is the explicit user-initiated save. While one save is in flight a
// single follow-up is queued; further requests coalesce into that one, so
// rapid save clicks produce at most one trailing write.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.saving {
		c.pendingSave = true
		c.mu.Unlock()
		return nil
	}
	c.saving = true
	c.mu.Unlock()

	var lastErr error
	for {
		c.saveLocal(ctx)
		lastErr = c.saveRemote(ctx)

		c.mu.Lock()
		if !c.pendingSave {
			c.saving = false
			c.mu.Unlock()
			return lastErr
		}
		c.pendingSave = false
		c.mu.Unlock()
	}
}

// FlushNow writes both tiers immediately, bypassing the timers. Destructive
// operations use this so their result is durable before control returns.
func (c *Coordinator) FlushNow(ctx context.Context) error {
	c.saveLocal(ctx)
	return c.saveRemote(ctx)
}

// Saving reports whether an explicit save is currently in flight
func (c *Coordinator) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// LastSaved reports when each tier last persisted successfully
func (c *Coordinator) LastSaved() SaveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SaveState{
		LocalSavedAt:  c.localSavedAt,
		RemoteSavedAt: c.remoteSavedAt,
	}
}

// LastRemoteError returns the most recent remote save failure, cleared on
// the next successful remote save. Surfaces the retry notice to callers.
func (c *Coordinator) LastRemoteError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRemoteErr
}

// saveLocal writes the snapshot to the fast tier. Local failures never
// surface to the user; they are logged and the durable tier carries on.
func (c *Coordinator) saveLocal(ctx context.Context) {
	if c.cache == nil {
		return
	}

	snapshot := c.session.Snapshot()
	record := ports.EncodeSnapshot(snapshot)

	payload, err := json.Marshal(record)
	if err != nil {
		c.logger.Warn("local snapshot marshal failed",
			zap.String("boardID", record.ID),
			zap.Error(err),
		)
		return
	}

	if err := c.cache.Set(ctx, cacheKeyPrefix+record.ID, payload); err != nil {
		c.logger.Warn("local snapshot write failed",
			zap.String("boardID", record.ID),
			zap.Error(err),
		)
		return
	}

	c.mu.Lock()
	c.localSavedAt = time.Now()
	c.mu.Unlock()
}

// saveRemote writes the full snapshot to the durable tier. Each save is
// stamped with a sequence number when it starts; a completion only applies
// the server's returned metadata if no later-started save has already
// applied, so the last save to start wins regardless of completion order.
func (c *Coordinator) saveRemote(ctx context.Context) error {
	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	snapshot := c.session.Snapshot()
	record := ports.EncodeSnapshot(snapshot)

	stored, err := c.repo.Put(ctx, record.ID, record.UserID, record)
	if err != nil {
		wrapped := pkgerrors.NewRemoteWriteFailedError(record.ID, err)
		c.mu.Lock()
		c.lastRemoteErr = wrapped
		c.mu.Unlock()
		return wrapped
	}

	// The staleness check and the metadata apply share one critical section:
	// an older completion that passes its check can never apply after a
	// newer one has.
	c.mu.Lock()
	if seq <= c.appliedSeq {
		c.mu.Unlock()
		c.logger.Debug("stale remote save completion discarded",
			zap.String("boardID", record.ID),
			zap.Uint64("seq", seq),
		)
		return nil
	}
	c.appliedSeq = seq
	c.remoteSavedAt = time.Now()
	c.lastRemoteErr = nil
	c.session.ApplyServerMetadata(stored.Title, stored.Description, stored.UpdatedAt)
	c.mu.Unlock()
	return nil
}

// LoadBoard performs the initial fetch for a board session. There is no
// stale-data fallback: if the durable tier cannot be read the load fails
// loudly rather than letting the user edit a board that cannot be saved.
func LoadBoard(ctx context.Context, repo ports.BoardRepository, boardID, userID string, cfg *config.DomainConfig) (*aggregates.Board, error) {
	record, err := repo.Get(ctx, boardID, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, err
		}
		return nil, pkgerrors.NewRemoteReadFailedError(boardID, err)
	}
	return ports.DecodeBoard(record, cfg)
}
