// Package rediscache caches computed attendance summaries in Redis. Cache
// failures are logged and swallowed; the database remains the source of truth.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/attendance"
)

const (
	summaryKeyPrefix = "attendance:summary:" // attendance:summary:{studentID}
	summaryTTL       = 10 * time.Minute
)

type SummaryCache struct {
	client *redis.Client
	logger core.Logger
}

var _ attendance.SummaryCache = (*SummaryCache)(nil) // interface compliance check

func NewSummaryCache(client *redis.Client, logger core.Logger) *SummaryCache {
	return &SummaryCache{client: client, logger: logger}
}

func summaryKey(studentID string) string {
	return summaryKeyPrefix + studentID
}

func (c *SummaryCache) GetSummary(ctx context.Context, studentID string) (attendance.Summary, bool) {
	data, err := c.client.Get(ctx, summaryKey(studentID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("reading cached summary", err)
		}
		return attendance.Summary{}, false
	}

	var s attendance.Summary
	if err = json.Unmarshal(data, &s); err != nil {
		c.logger.Warn("decoding cached summary", err)
		return attendance.Summary{}, false
	}
	return s, true
}

func (c *SummaryCache) SetSummary(ctx context.Context, studentID string, s attendance.Summary) {
	data, err := json.Marshal(s)
	if err != nil {
		c.logger.Warn("encoding summary", err)
		return
	}
	if err = c.client.Set(ctx, summaryKey(studentID), data, summaryTTL).Err(); err != nil {
		c.logger.Warn("caching summary", err)
	}
}

func (c *SummaryCache) InvalidateSummaries(ctx context.Context, studentIDs ...string) {
	if len(studentIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		keys = append(keys, summaryKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("invalidating summaries", err)
	}
}
