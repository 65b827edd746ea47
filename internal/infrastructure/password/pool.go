package password

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsfeed/newsfeed-api/internal/api/metrics"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

const channelBuffer = 256

// ErrPoolStopped is returned once the pool's workers have exited.
var ErrPoolStopped = errors.New("password pool stopped")

type opKind string

const (
	opHash   opKind = "hash"
	opVerify opKind = "verify"
)

type job struct {
	ctx       context.Context
	op        opKind
	plaintext string
	digest    string
	enqueued  time.Time
	result    chan result
}

type result struct {
	digest string
	ok     bool
	err    error
}

// Pool runs password hashing on a fixed set of worker goroutines so that
// bursts of signups and logins cannot start unbounded bcrypt computations.
// Pool implements ports.PasswordHasher.
type Pool struct {
	hasher  ports.PasswordHasher
	jobs    chan job
	workers int
	done    chan struct{}
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewPool creates a Pool of numWorkers workers around hasher.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewPool(numWorkers int, hasher ports.PasswordHasher, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		hasher:  hasher,
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		done:    make(chan struct{}),
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// pending and future calls then fail with ErrPoolStopped.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	<-p.done
}

// Hash hashes plaintext on a pool worker.
func (p *Pool) Hash(ctx context.Context, plaintext string) (string, error) {
	res, err := p.submit(ctx, job{op: opHash, plaintext: plaintext})
	if err != nil {
		return "", err
	}
	return res.digest, res.err
}

// Verify compares plaintext against digest on a pool worker.
func (p *Pool) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	res, err := p.submit(ctx, job{op: opVerify, plaintext: plaintext, digest: digest})
	if err != nil {
		return false, err
	}
	return res.ok, res.err
}

func (p *Pool) submit(ctx context.Context, j job) (result, error) {
	j.ctx = ctx
	j.enqueued = time.Now()
	j.result = make(chan result, 1)

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-p.done:
		return result{}, ErrPoolStopped
	}

	select {
	case res := <-j.result:
		return res, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-p.done:
		return result{}, ErrPoolStopped
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			// The caller gave up while the job was queued.
			if j.ctx.Err() != nil {
				continue
			}
			var res result
			switch j.op {
			case opHash:
				res.digest, res.err = p.hasher.Hash(j.ctx, j.plaintext)
			case opVerify:
				res.ok, res.err = p.hasher.Verify(j.ctx, j.plaintext, j.digest)
			}
			if res.err != nil {
				p.log.Error().Err(res.err).Str("op", string(j.op)).Int("worker_id", id).Msg("password operation failed")
			}
			metrics.PasswordHashDuration.WithLabelValues(string(j.op)).Observe(time.Since(j.enqueued).Seconds())
			j.result <- res
		}
	}
}

var _ ports.PasswordHasher = (*Pool)(nil)
var _ ports.PasswordHasher = (*Bcrypt)(nil)
