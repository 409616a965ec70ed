package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLeaseTTL = 30 * time.Second

// RedisQueue is a reliable list queue:
//
//	queue:<name>:waiting          LIST    new and promoted jobs (LPUSH / BRPOPLPUSH)
//	queue:<name>:delayed          ZSET    failed jobs scored by retry time (unix ms)
//	queue:<name>:consumers        SET     registered consumer ids
//	queue:<name>:active:<id>      LIST    jobs a consumer is processing
//	queue:<name>:lease:<id>       STRING  heartbeat, expires leaseTTL after the last renewal
//
// A consumer's active list is only moved back to waiting once its lease has
// expired, so live consumers never lose in-flight jobs to a new one.
type RedisQueue struct {
	rdb      *redis.Client
	name     string
	consumer string
	opts     Options
	log      *slog.Logger
	now      func() time.Time
	leaseTTL time.Duration
	closed   atomic.Bool
}

var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, m in ipairs(due) do
  redis.call('ZREM', KEYS[1], m)
  redis.call('LPUSH', KEYS[2], m)
end
return #due
`)

func NewRedisQueue(rdb *redis.Client, name string, opts Options, log *slog.Logger) *RedisQueue {
	consumer := uuid.NewString()
	return &RedisQueue{
		rdb:      rdb,
		name:     name,
		consumer: consumer,
		opts:     opts.withDefaults(),
		log:      log.With("queue", name, "driver", "redis", "consumer", consumer),
		now:      time.Now,
		leaseTTL: defaultLeaseTTL,
	}
}

func (q *RedisQueue) key(part string) string { return "queue:" + q.name + ":" + part }

func (q *RedisQueue) activeKey(consumer string) string { return q.key("active:" + consumer) }

func (q *RedisQueue) leaseKey(consumer string) string { return q.key("lease:" + consumer) }

func (q *RedisQueue) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	if q.closed.Load() {
		return "", ErrClosed
	}
	j, err := NewJob(name, payload, q.opts.MaxAttempts, q.now())
	if err != nil {
		return "", fmt.Errorf("encode job: %w", err)
	}
	raw, err := json.Marshal(j)
	if err != nil {
		return "", err
	}
	if err := q.rdb.LPush(ctx, q.key("waiting"), raw).Err(); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", name, err)
	}
	return j.ID, nil
}

// Close stops new enqueues. The client is owned by the caller.
func (q *RedisQueue) Close() error {
	q.closed.Store(true)
	return nil
}

func (q *RedisQueue) Consume(ctx context.Context, h Handler) error {
	if n, err := q.ReclaimExpired(ctx); err != nil {
		return fmt.Errorf("reclaim expired: %w", err)
	} else if n > 0 {
		q.log.Warn("requeued jobs of expired consumers", "count", n)
	}
	if err := q.renewLease(ctx); err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	defer q.release(context.WithoutCancel(ctx))

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go q.heartbeat(hbCtx)

	var wg sync.WaitGroup
	for i := 0; i < q.opts.Concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for ctx.Err() == nil {
				raw, err := q.next(ctx, time.Second)
				if err != nil {
					if errors.Is(err, redis.Nil) || ctx.Err() != nil {
						continue
					}
					q.log.Error("dequeue failed", "worker", worker, "error", err)
					sleepCtx(ctx, time.Second)
					continue
				}
				q.process(ctx, raw, h)
			}
		}(i)
	}
	wg.Wait()
	return nil
}

func (q *RedisQueue) renewLease(ctx context.Context) error {
	_, err := q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, q.leaseKey(q.consumer), q.now().UTC().Format(time.RFC3339Nano), q.leaseTTL)
		p.SAdd(ctx, q.key("consumers"), q.consumer)
		return nil
	})
	return err
}

func (q *RedisQueue) heartbeat(ctx context.Context) {
	t := time.NewTicker(q.leaseTTL / 3)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := q.renewLease(ctx); err != nil && ctx.Err() == nil {
				q.log.Error("lease renewal failed", "error", err)
			}
		}
	}
}

// release hands back anything still in this consumer's active list and
// unregisters it.
func (q *RedisQueue) release(ctx context.Context) {
	if n, err := q.drain(ctx, q.activeKey(q.consumer)); err != nil {
		q.log.Error("release active jobs", "error", err)
		return
	} else if n > 0 {
		q.log.Warn("returned unfinished jobs to waiting", "count", n)
	}
	_, err := q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, q.leaseKey(q.consumer))
		p.SRem(ctx, q.key("consumers"), q.consumer)
		return nil
	})
	if err != nil {
		q.log.Error("unregister consumer", "error", err)
	}
}

func (q *RedisQueue) next(ctx context.Context, timeout time.Duration) (string, error) {
	return q.rdb.BRPopLPush(ctx, q.key("waiting"), q.activeKey(q.consumer), timeout).Result()
}

func (q *RedisQueue) process(ctx context.Context, raw string, h Handler) {
	var j Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		q.log.Error("dropping undecodable job", "error", err)
		q.ack(context.WithoutCancel(ctx), raw)
		return
	}
	if err := h(ctx, j); err != nil {
		q.fail(context.WithoutCancel(ctx), raw, j, err)
		return
	}
	q.ack(context.WithoutCancel(ctx), raw)
}

func (q *RedisQueue) ack(ctx context.Context, raw string) {
	if err := q.rdb.LRem(ctx, q.activeKey(q.consumer), 1, raw).Err(); err != nil {
		q.log.Error("ack failed", "error", err)
	}
}

func (q *RedisQueue) fail(ctx context.Context, raw string, j Job, cause error) {
	j.Attempts++
	log := q.log.With("job_id", j.ID, "job", j.Name, "attempts", j.Attempts, "max_attempts", j.MaxAttempts)
	if j.Exhausted() {
		log.Error("job exhausted retries; dropping", "error", cause)
		q.ack(ctx, raw)
		return
	}
	at := q.now().Add(Backoff(q.opts.Backoff, j.Attempts))
	j.RetryAt = &at
	next, err := json.Marshal(j)
	if err != nil {
		log.Error("re-encode failed job", "error", err)
		q.ack(ctx, raw)
		return
	}
	_, err = q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LRem(ctx, q.activeKey(q.consumer), 1, raw)
		p.ZAdd(ctx, q.key("delayed"), redis.Z{Score: float64(at.UnixMilli()), Member: string(next)})
		return nil
	})
	if err != nil {
		log.Error("schedule retry failed", "error", err)
		return
	}
	log.Warn("job failed; retry scheduled", "retry_at", at.UTC().Format(time.RFC3339Nano), "error", cause)
}

// PromoteDelayed moves due retries back to waiting.
func (q *RedisQueue) PromoteDelayed(ctx context.Context) (int, error) {
	now := strconv.FormatInt(q.now().UnixMilli(), 10)
	n, err := promoteScript.Run(ctx, q.rdb, []string{q.key("delayed"), q.key("waiting")}, now, 100).Int()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ReclaimExpired moves the active jobs of consumers whose lease has expired
// back to waiting and unregisters them. Safe to run while other consumers
// are live.
func (q *RedisQueue) ReclaimExpired(ctx context.Context) (int, error) {
	ids, err := q.rdb.SMembers(ctx, q.key("consumers")).Result()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		if id == q.consumer {
			continue
		}
		alive, err := q.rdb.Exists(ctx, q.leaseKey(id)).Result()
		if err != nil {
			return total, err
		}
		if alive > 0 {
			continue
		}
		n, err := q.drain(ctx, q.activeKey(id))
		total += n
		if err != nil {
			return total, err
		}
		if err := q.rdb.SRem(ctx, q.key("consumers"), id).Err(); err != nil {
			return total, err
		}
	}
	return total, nil
}

func (q *RedisQueue) drain(ctx context.Context, active string) (int, error) {
	n := 0
	for {
		err := q.rdb.RPopLPush(ctx, active, q.key("waiting")).Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// Len reports waiting, delayed and this consumer's active counts.
func (q *RedisQueue) Len(ctx context.Context) (waiting, active, delayed int64, err error) {
	pipe := q.rdb.Pipeline()
	w := pipe.LLen(ctx, q.key("waiting"))
	a := pipe.LLen(ctx, q.activeKey(q.consumer))
	d := pipe.ZCard(ctx, q.key("delayed"))
	if _, err = pipe.Exec(ctx); err != nil {
		return 0, 0, 0, err
	}
	return w.Val(), a.Val(), d.Val(), nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
