package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// ReportCardCache is a cache-aside layer over assembled report cards. Misses
// and redis failures are both just misses: the assembler is the source of
// truth, the cache only saves collaborator fan-outs.
type ReportCardCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewReportCardCache(client *redis.Client, ttl time.Duration) *ReportCardCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCardCache{
		client: client,
		ttl:    ttl,
		log:    logger.With("report_card_cache"),
	}
}

func cacheKey(studentID string, period model.Semester) string {
	return fmt.Sprintf("report-card:%s:%s", studentID, period)
}

func (c *ReportCardCache) Get(ctx context.Context, studentID string, period model.Semester) (*model.ReportCard, bool) {
	data, err := c.client.Get(ctx, cacheKey(studentID, period)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("student_id", studentID).Msg("Cache read failed")
		}
		return nil, false
	}

	var card model.ReportCard
	if err := json.Unmarshal(data, &card); err != nil {
		c.log.Warn().Err(err).Str("student_id", studentID).Msg("Dropping undecodable cache entry")
		c.client.Del(ctx, cacheKey(studentID, period))
		return nil, false
	}
	return &card, true
}

func (c *ReportCardCache) Set(ctx context.Context, card *model.ReportCard) {
	data, err := json.Marshal(card)
	if err != nil {
		c.log.Warn().Err(err).Str("student_id", card.StudentID).Msg("Failed to encode report card")
		return
	}
	if err := c.client.Set(ctx, cacheKey(card.StudentID, card.Period), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("student_id", card.StudentID).Msg("Cache write failed")
	}
}

// Invalidate drops every period's cached card for the student. Grade writes
// can shift any period's summary, so all of them go.
func (c *ReportCardCache) Invalidate(ctx context.Context, studentID string) {
	keys := make([]string, 0, 3)
	for _, period := range model.Semesters() {
		keys = append(keys, cacheKey(studentID, period))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Str("student_id", studentID).Msg("Cache invalidation failed")
	}
}
