package miner

import (
	"context"
	"errors"
	"sync"

	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const DefaultQueueSize = 16

// Worker executes append jobs one at a time on its own goroutine.
type Worker struct {
	chain   Chain
	log     *logrus.Logger
	metrics *metrics
	jobs    chan request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
	stopped bool
}

func NewWorker(chain Chain, queueSize int, logger *logrus.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		chain:   chain,
		log:     logger,
		metrics: newMetrics(),
		jobs:    make(chan request, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Registry exposes the worker's counters.
func (w *Worker) Registry() *prometheus.Registry {
	return w.metrics.registry
}

func (w *Worker) Run() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running || w.stopped {
		return
	}
	w.running = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		for {
			select {
			case <-w.ctx.Done():
				return
			case req := <-w.jobs:
				if w.ctx.Err() != nil {
					req.result <- Result{Err: ErrWorkerStopped}
					continue
				}
				req.result <- w.process(req)
			}
		}
	}()

	w.log.WithField("chain_id", w.chain.ID()).Debug("Miner worker started")
}

// Submit queues a job without blocking. The returned channel receives
// exactly one Result.
func (w *Worker) Submit(ctx context.Context, job Job) <-chan Result {
	result := make(chan Result, 1)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		result <- Result{Err: ErrWorkerStopped}
		return result
	}

	select {
	case w.jobs <- request{ctx: ctx, job: job, result: result}:
	default:
		result <- Result{Err: ErrQueueFull}
	}

	return result
}

// Mine submits a job and waits for its result.
func (w *Worker) Mine(ctx context.Context, job Job) (Result, error) {
	select {
	case res := <-w.Submit(ctx, job):
		return res, res.Err
	case <-ctx.Done():
		return Result{}, consensus.ContextError(ctx.Err())
	}
}

func (w *Worker) process(req request) Result {
	ctx, cancel := context.WithCancel(req.ctx)
	defer cancel()

	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	if req.job.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, req.job.Timeout)
		defer timeoutCancel()
	}

	logger := w.log.WithFields(logrus.Fields{
		"chain_id":  w.chain.ID(),
		"consensus": req.job.Consensus,
		"algorithm": req.job.Algorithm,
	})

	blk, err := w.chain.Append(ctx, req.job.Data, req.job.Algorithm, req.job.Consensus)
	if err != nil {
		w.metrics.failures.Inc()
		if errors.Is(err, consensus.ErrConsensusTimeout) {
			w.metrics.timeouts.Inc()
		}
		logger.WithError(err).Warn("Mining job failed")
		return Result{Err: err}
	}

	w.metrics.finalized.WithLabelValues(req.job.Consensus.Short()).Inc()
	logger.WithFields(logrus.Fields{
		"index": blk.Index(),
		"nonce": blk.Nonce(),
	}).Debug("Mining job completed")

	return Result{Block: blk}
}

// Stop cancels the job in flight, waits for the worker goroutine and fails
// every job still queued with ErrWorkerStopped.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()

	for {
		select {
		case req := <-w.jobs:
			req.result <- Result{Err: ErrWorkerStopped}
		default:
			w.log.WithField("chain_id", w.chain.ID()).Debug("Miner worker stopped")
			return
		}
	}
}
