package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/extractcache"
	"scribe/internal/extraction"
	"scribe/internal/gate"
	"scribe/internal/logging"
	"scribe/internal/tasks"
)

// Extractor produces an enrichment result for raw task text.
type Extractor interface {
	Extract(ctx context.Context, rawInput string) (*extraction.Result, error)
}

// Orchestrator drives the enrichment pipeline: a fixed pool of workers drains
// a channel of task ids, and a poll loop requeues whatever is still pending.
// The poll loop makes delivery reliable across restarts; an enqueue that gets
// lost (full channel, crash between insert and send) is picked up on the next
// sweep.
type Orchestrator struct {
	cfg       *config.Config
	store     *tasks.Store
	extractor Extractor
	cache     *extractcache.Cache
	logger    *slog.Logger

	workers            int
	pollInterval       time.Duration
	errorRetryInterval time.Duration
	threshold          float64
	timeout            time.Duration

	queue chan string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs an orchestrator. A nil cache disables memoization; a nil
// logger is replaced with a nop logger.
func New(cfg *config.Config, store *tasks.Store, extractor Extractor, cache *extractcache.Cache, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Enrichment.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		cfg:                cfg,
		store:              store,
		extractor:          extractor,
		cache:              cache,
		logger:             logging.NewComponentLogger(logger, "orchestrator"),
		workers:            workers,
		pollInterval:       time.Duration(cfg.Enrichment.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Enrichment.ErrorRetryInterval) * time.Second,
		threshold:          cfg.Enrichment.ConfidenceThreshold,
		timeout:            time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		queue:              make(chan string, workers*4),
	}
}

// Start launches the worker pool and the pending poll loop. Tasks left in
// processing by an earlier run that died mid-claim are returned to pending
// first so the pool picks them up again.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return errors.New("orchestrator already running")
	}

	reset, err := o.store.ResetStuckProcessing(ctx)
	if err != nil {
		return fmt.Errorf("reset stuck tasks: %w", err)
	}
	if reset > 0 {
		o.logger.Info("requeued tasks stuck in processing", logging.Int("count", int(reset)))
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.running = true

	o.wg.Add(o.workers + 1)
	for i := 0; i < o.workers; i++ {
		go o.runWorker(runCtx)
	}
	go o.runPollLoop(runCtx)

	o.logger.Info("enrichment started",
		logging.Int("workers", o.workers),
		logging.Duration("poll_interval", o.pollInterval))
	return nil
}

// Stop terminates background processing and waits for in-flight work.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	cancel := o.cancel
	o.running = false
	o.cancel = nil
	o.mu.Unlock()

	cancel()
	o.wg.Wait()
	o.logger.Info("enrichment stopped")
}

// Enqueue offers a task id to the worker pool without blocking. A full queue
// drops the id; the poll loop re-discovers it while the row is still pending.
func (o *Orchestrator) Enqueue(id string) {
	select {
	case o.queue <- id:
	default:
		o.logger.Debug("enqueue dropped, queue full", logging.String(logging.FieldTaskID, id))
	}
}

func (o *Orchestrator) runWorker(ctx context.Context) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-o.queue:
			o.process(ctx, id)
		}
	}
}

func (o *Orchestrator) runPollLoop(ctx context.Context) {
	defer o.wg.Done()
	for {
		ids, err := o.store.PendingIDs(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			o.logger.Error("failed to poll pending tasks",
				logging.Error(err),
				logging.String(logging.FieldEventType, "pending_poll_failed"),
				logging.String(logging.FieldErrorHint, "check task database access"))
			if !sleepCtx(ctx, o.errorRetryInterval) {
				return
			}
			continue
		}
		for _, id := range ids {
			o.Enqueue(id)
		}
		if !sleepCtx(ctx, o.pollInterval) {
			return
		}
	}
}

// process runs one task through claim, extraction, gating, and completion.
// Any step that loses a status race means another actor (a second worker, or
// a user cancel) got there first, so the work is dropped silently.
func (o *Orchestrator) process(ctx context.Context, id string) {
	requestID := uuid.NewString()
	logger := o.logger.With(
		logging.String(logging.FieldTaskID, id),
		logging.String(logging.FieldRequestID, requestID))

	claimed, err := o.store.Transition(ctx, id, tasks.StatusPending, tasks.StatusProcessing, nil)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) || tasks.IsInvalidTransition(err) {
			logger.Debug("claim skipped", logging.Error(err))
			return
		}
		logger.Error("claim failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "task_claim_failed"))
		return
	}
	logger.Info("enriching task", logging.String(logging.FieldStatus, string(claimed.Status)))

	result, err := o.extract(ctx, claimed.RawInput)
	if err != nil {
		o.markFailed(ctx, logger, id, err)
		return
	}

	completed, err := o.store.Transition(ctx, id, tasks.StatusProcessing, tasks.StatusCompleted, func(task *tasks.Task) {
		gate.Apply(task, result, o.threshold, time.Now().UTC())
	})
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) || tasks.IsInvalidTransition(err) {
			logger.Debug("completion dropped, task moved or removed", logging.Error(err))
			return
		}
		logger.Error("completion write failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "task_complete_failed"))
		return
	}
	logger.Info("task enriched",
		logging.String(logging.FieldLane, string(completed.Lane())),
		logging.Bool("requires_attention", completed.RequiresAttention))
}

// extract serves the result from cache when possible, otherwise calls the
// service under the configured deadline. Only successful results are cached.
func (o *Orchestrator) extract(ctx context.Context, rawInput string) (*extraction.Result, error) {
	if o.cache != nil {
		if cached, ok := o.cache.Lookup(rawInput); ok {
			o.logger.Debug("extraction served from cache")
			return cached, nil
		}
	}

	extractCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	result, err := o.extractor.Extract(extractCtx, rawInput)
	if err != nil {
		return nil, err
	}
	if o.cache != nil {
		o.cache.Store(rawInput, result)
	}
	return result, nil
}

func (o *Orchestrator) markFailed(ctx context.Context, logger *slog.Logger, id string, cause error) {
	_, err := o.store.Transition(ctx, id, tasks.StatusProcessing, tasks.StatusFailed, func(task *tasks.Task) {
		task.ErrorMessage = cause.Error()
	})
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) || tasks.IsInvalidTransition(err) {
			logger.Debug("failure dropped, task moved or removed", logging.Error(err))
			return
		}
		logger.Error("failure write failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "task_fail_failed"))
		return
	}
	logger.Warn("task enrichment failed",
		logging.Error(cause),
		logging.String(logging.FieldEventType, "task_enrichment_failed"))
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		d = time.Second
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
