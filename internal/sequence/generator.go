package sequence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

const (
	numberPrefix = "REP"
	dateLayout   = "20060102"
	maxDaily     = 9999

	counterKeyPrefix = "ticket:seq:"
	counterTTL       = 48 * time.Hour
)

// LastNumberReader reads the greatest persisted ticket number for a date
// prefix, "" when none exists.
type LastNumberReader interface {
	LastNumberForPrefix(ctx context.Context, prefix string) (string, error)
}

// Generator allocates date-scoped ticket numbers of the form
// REP-YYYYMMDD-NNNN. Allocation is an atomic Redis INCR on a per-date key so
// concurrent creations never observe the same value; the first allocation of
// a day aligns the counter with whatever the store already holds. The unique
// index on tickets.ticket_number remains the backstop for the rare seed race.
type Generator struct {
	redis  *redis.Client
	store  LastNumberReader
	logger *zap.Logger
}

// NewGenerator builds a Generator.
func NewGenerator(client *redis.Client, store LastNumberReader, logger *zap.Logger) *Generator {
	return &Generator{redis: client, store: store, logger: logger}
}

// Prefix returns the ticket-number prefix for a date, e.g. "REP-20240501".
func Prefix(date time.Time) string {
	return fmt.Sprintf("%s-%s", numberPrefix, date.Format(dateLayout))
}

// Format renders a full ticket number.
func Format(date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%04d", Prefix(date), seq)
}

// Next allocates the next ticket number for the given date. Returns a
// SEQUENCE_EXHAUSTED error once the 4-digit space for the day is used up.
func (g *Generator) Next(ctx context.Context, date time.Time) (string, error) {
	key := counterKeyPrefix + date.Format(dateLayout)

	seq, err := g.redis.Incr(ctx, key).Result()
	if err != nil {
		// Counter unavailable; fall back to a store read. The resulting value
		// is racy under concurrency and relies on the unique index plus the
		// caller's retry to stay collision free.
		g.logger.Warn("sequence counter unavailable, falling back to store read", zap.Error(err))
		return g.nextFromStore(ctx, date)
	}

	if seq == 1 {
		// Fresh counter for this date. Align with tickets persisted before the
		// counter existed (process restart, counter eviction).
		seeded, err := g.seed(ctx, key, date)
		if err != nil {
			return "", err
		}
		if seeded > 0 {
			seq = seeded
		} else if err := g.redis.Expire(ctx, key, counterTTL).Err(); err != nil {
			g.logger.Warn("failed to set sequence counter expiry", zap.Error(err))
		}
	}

	if seq > maxDaily {
		return "", apperrors.NewSequenceExhausted(date.Format(dateLayout))
	}
	return Format(date, seq), nil
}

func (g *Generator) seed(ctx context.Context, key string, date time.Time) (int64, error) {
	last, err := g.store.LastNumberForPrefix(ctx, Prefix(date))
	if err != nil {
		return 0, err
	}
	if last == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(last[len(last)-4:])
	if err != nil || n < 1 {
		g.logger.Warn("unparseable ticket number during counter seed", zap.String("number", last))
		return 0, nil
	}

	seq := int64(n) + 1
	if err := g.redis.Set(ctx, key, seq, counterTTL).Err(); err != nil {
		g.logger.Warn("failed to seed sequence counter", zap.Error(err))
	}
	return seq, nil
}

func (g *Generator) nextFromStore(ctx context.Context, date time.Time) (string, error) {
	last, err := g.store.LastNumberForPrefix(ctx, Prefix(date))
	if err != nil {
		return "", err
	}

	seq := int64(1)
	if last != "" {
		n, err := strconv.Atoi(last[len(last)-4:])
		if err != nil {
			return "", fmt.Errorf("unparseable ticket number %q: %w", last, err)
		}
		seq = int64(n) + 1
	}
	if seq > maxDaily {
		return "", apperrors.NewSequenceExhausted(date.Format(dateLayout))
	}
	return Format(date, seq), nil
}
