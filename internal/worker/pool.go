package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/acavalcante04/erp-security/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmail = "email"

	// maxAttempts per dequeued job before it goes to the DLQ.
	maxAttempts = 3
)

var errTipoDesconhecido = errors.New("tipo de job desconhecido")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes the payload of one job type. Returning an error wrapped with
// Permanente skips the remaining attempts.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, msg infra.Email) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, msg)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	// backoff is the wait before attempt n (n ≥ 1)
	backoff func(n int) time.Duration
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, backoff: backoffExponencial}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle workers cost
// no CPU. They stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// processJob runs the handler with retries and parks the job in the DLQ when every
// attempt failed. It returns the attempts used and the last error.
func (p *Pool) processJob(ctx context.Context, queue, raw string) (int, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		p.dlq(ctx, queue, "", json.RawMessage(raw), "payload inválido: "+err.Error(), 0)
		return 0, err
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler for job type")
		p.dlq(ctx, queue, job.Type, job.Payload, errTipoDesconhecido.Error(), 0)
		return 0, errTipoDesconhecido
	}

	attempts, err := withRetry(ctx, maxAttempts, p.backoff, func(attempt int) error {
		err := h.Process(ctx, job.Payload)
		if err != nil {
			log.Warn().Err(err).
				Str("type", job.Type).
				Int("attempt", attempt+1).
				Msg("job attempt failed")
		}
		return err
	})
	if err != nil {
		p.dlq(ctx, queue, job.Type, job.Payload, err.Error(), attempts)
		return attempts, err
	}
	log.Info().Str("type", job.Type).Int("attempts", attempts).Msg("job processed")
	return attempts, nil
}

func (p *Pool) dlq(ctx context.Context, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	if p.rdb == nil {
		return
	}
	SendToDLQ(ctx, p.rdb, queue, jobType, payload, reason, attempts)
}
