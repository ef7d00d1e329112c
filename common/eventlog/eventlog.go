// Package eventlog provides the Redis-backed event log store shared by the
// detection worker, the dashboard service, and the CLI.
//
// Designed for multiple worker instances writing concurrently.
//
// Redis Key Structure:
//
//	{queue}            - List used as the FIFO detection work queue
//	{legacy log}       - Sorted set of person events scored by timestamp
//	{result log}       - Sorted set of compliance results scored by timestamp
//	no_{task}_count    - Integer violation counter, one per monitored task
//	{stats stream}     - Append-only stream of stats snapshots
package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gearguard-systems/gearguard-stack/common/models"
)

// ErrEmpty is returned by PopQueued when the work queue has no items.
var ErrEmpty = errors.New("eventlog: queue empty")

// Keys names the Redis keys used by one deployment. Zero values fall back
// to DefaultKeys.
type Keys struct {
	Queue     string
	LegacyLog string
	ResultLog string
	Stream    string
}

// DefaultKeys returns the key names used when none are configured.
func DefaultKeys() Keys {
	return Keys{
		Queue:     "gg:detect:queue",
		LegacyLog: "gg:person:log",
		ResultLog: "gg:result:log",
		Stream:    "gg:stats:stream",
	}
}

func (k Keys) withDefaults() Keys {
	d := DefaultKeys()
	if k.Queue == "" {
		k.Queue = d.Queue
	}
	if k.LegacyLog == "" {
		k.LegacyLog = d.LegacyLog
	}
	if k.ResultLog == "" {
		k.ResultLog = d.ResultLog
	}
	if k.Stream == "" {
		k.Stream = d.Stream
	}
	return k
}

// StreamMessage is one entry read from the stats stream.
type StreamMessage struct {
	ID      string
	Payload string
}

// Client provides typed access to the event log store.
type Client struct {
	rdb  *redis.Client
	keys Keys
}

// New connects to the store at redisURL and verifies the connection.
func New(redisURL string, keys Keys) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, keys: keys.withDefaults()}, nil
}

// NewFromClient wraps an existing Redis connection.
func NewFromClient(rdb *redis.Client, keys Keys) *Client {
	return &Client{rdb: rdb, keys: keys.withDefaults()}
}

// PopQueued removes and returns the oldest raw item from the work queue.
// Returns ErrEmpty when the queue has no items. Never blocks.
func (c *Client) PopQueued(ctx context.Context) (string, error) {
	raw, err := c.rdb.LPop(ctx, c.keys.Queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", fmt.Errorf("failed to pop queue: %w", err)
	}
	return raw, nil
}

// Enqueue pushes a detection event onto the tail of the work queue.
func (c *Client) Enqueue(ctx context.Context, ev *models.DetectionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.rdb.RPush(ctx, c.keys.Queue, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}
	return nil
}

// LegacyEntry is one raw legacy log member together with its sorted-set
// score. The score is the authoritative timestamp: readers can advance a
// watermark past an entry even when the member itself fails to parse.
type LegacyEntry struct {
	Timestamp int64
	Raw       string
}

// ScanSince returns all legacy log entries with timestamp strictly greater
// than ts, in ascending timestamp order.
func (c *Client) ScanSince(ctx context.Context, ts int64) ([]LegacyEntry, error) {
	zs, err := c.rdb.ZRangeByScoreWithScores(ctx, c.keys.LegacyLog, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(ts, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan legacy log: %w", err)
	}

	entries := make([]LegacyEntry, 0, len(zs))
	for _, z := range zs {
		raw, _ := z.Member.(string)
		entries = append(entries, LegacyEntry{Timestamp: int64(z.Score), Raw: raw})
	}
	return entries, nil
}

// AppendLegacy adds an event to the legacy person log scored by its timestamp.
func (c *Client) AppendLegacy(ctx context.Context, ev *models.DetectionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = c.rdb.ZAdd(ctx, c.keys.LegacyLog, redis.Z{
		Score:  float64(ev.Timestamp),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append legacy entry: %w", err)
	}
	return nil
}

// AppendResult writes a ResultRecord to the result log scored by its
// timestamp. Records are written once and never mutated.
func (c *Client) AppendResult(ctx context.Context, rec *models.ResultRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	err = c.rdb.ZAdd(ctx, c.keys.ResultLog, redis.Z{
		Score:  float64(rec.Timestamp),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append result: %w", err)
	}
	return nil
}

// latestScanLimit bounds how far back LatestImages reads the result log.
const latestScanLimit = 1000

// LatestImages returns up to count image basenames of the most recent
// results with the given status, most-recent-first. Only the newest
// latestScanLimit result entries are examined.
func (c *Client) LatestImages(ctx context.Context, status string, count int) ([]string, error) {
	entries, err := c.rdb.ZRevRange(ctx, c.keys.ResultLog, 0, latestScanLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read result log: %w", err)
	}

	images := make([]string, 0, count)
	for _, raw := range entries {
		var rec models.ResultRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		if rec.Status != status || rec.ImageReference == "" {
			continue
		}
		images = append(images, models.ImageBasename(rec.ImageReference))
		if len(images) >= count {
			break
		}
	}
	return images, nil
}

// IncrViolation atomically increments the counter for a non-compliant
// status. Counters are monotonic; this subsystem never decrements them.
func (c *Client) IncrViolation(ctx context.Context, status string) error {
	if err := c.rdb.Incr(ctx, models.CounterKey(status)).Err(); err != nil {
		return fmt.Errorf("failed to increment %s: %w", models.CounterKey(status), err)
	}
	return nil
}

// ViolationCount returns the current violation counter for a task,
// 0 when the counter does not exist yet.
func (c *Client) ViolationCount(ctx context.Context, task string) (int64, error) {
	key := models.CounterKey(models.ViolationStatus(task))
	val, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

// PublishStats appends a payload to the stats stream with a store-assigned id.
func (c *Client) PublishStats(ctx context.Context, payload string) error {
	err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: c.keys.Stream,
		Values: map[string]interface{}{"data": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish stats: %w", err)
	}
	return nil
}

// ReadStats reads messages from the stats stream after cursor, blocking up
// to block for new ones. cursor "$" means "only messages after now". On
// block timeout it returns no messages, the unchanged cursor, and nil error.
// The returned cursor is the id of the last message read.
func (c *Client) ReadStats(ctx context.Context, cursor string, block time.Duration) ([]StreamMessage, string, error) {
	streams, err := c.rdb.XRead(ctx, &redis.XReadArgs{
		Streams: []string{c.keys.Stream, cursor},
		Count:   16,
		Block:   block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, cursor, nil
	}
	if err != nil {
		return nil, cursor, fmt.Errorf("failed to read stats stream: %w", err)
	}

	var msgs []StreamMessage
	for _, stream := range streams {
		for _, m := range stream.Messages {
			payload, _ := m.Values["data"].(string)
			msgs = append(msgs, StreamMessage{ID: m.ID, Payload: payload})
			cursor = m.ID
		}
	}
	return msgs, cursor, nil
}

// Ping verifies store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
