package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	keySummary       = "dashboard:summary"
	keyCounterPrefix = "dashboard:counter:"
)

type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("dashboard.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) GetSummary(ctx context.Context) (_ *entity.Summary, err error) {
	ctx, span := c.startSpan(ctx, "GetSummary")
	defer func() { c.endSpan(span, err) }()

	raw, err := c.client.Get(ctx, keySummary).Bytes()
	if errors.Is(err, redis.Nil) {
		err = goerror.ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	var sum entity.Summary
	if err = json.Unmarshal(raw, &sum); err != nil {
		return nil, err
	}

	return &sum, nil
}

func (c *Cache) SetSummary(ctx context.Context, sum entity.Summary, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "SetSummary")
	defer func() { c.endSpan(span, err) }()

	raw, err := json.Marshal(sum)
	if err != nil {
		return err
	}

	err = c.client.Set(ctx, keySummary, raw, ttl).Err()
	return err
}

func (c *Cache) DeleteSummary(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, "DeleteSummary")
	defer func() { c.endSpan(span, err) }()

	err = c.client.Del(ctx, keySummary).Err()
	return err
}

func (c *Cache) IncrementCounter(ctx context.Context, name string) (err error) {
	ctx, span := c.startSpan(ctx, "IncrementCounter")
	defer func() { c.endSpan(span, err) }()

	err = c.client.Incr(ctx, keyCounterPrefix+name).Err()
	return err
}

func (c *Cache) GetCounter(ctx context.Context, name string) (_ int64, err error) {
	ctx, span := c.startSpan(ctx, "GetCounter")
	defer func() { c.endSpan(span, err) }()

	n, err := c.client.Get(ctx, keyCounterPrefix+name).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return n, nil
}
