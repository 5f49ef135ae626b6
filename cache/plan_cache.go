package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"checkout-pricing-api/models"
)

const DefaultPlanTTL = 10 * time.Minute

// PlanCache stores marketing plans by id. Plans change rarely, prices computed for a
// selection are never stored here.
type PlanCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewPlanCache(client *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &PlanCache{
		client: client,
		prefix: "checkout:plan:",
		ttl:    ttl,
	}
}

func (c *PlanCache) key(planID int) string {
	return c.prefix + strconv.Itoa(planID)
}

func (c *PlanCache) GetPlan(ctx context.Context, planID int) (models.MarketingPlan, bool, error) {
	raw, err := c.client.Get(ctx, c.key(planID)).Bytes()
	if err == redis.Nil {
		return models.MarketingPlan{}, false, nil
	}
	if err != nil {
		return models.MarketingPlan{}, false, fmt.Errorf("failed to read plan %d from cache: %w", planID, err)
	}

	var plan models.MarketingPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		// Unreadable entries are dropped and refetched.
		c.client.Del(ctx, c.key(planID))
		return models.MarketingPlan{}, false, nil
	}
	return plan, true, nil
}

func (c *PlanCache) SetPlan(ctx context.Context, plan models.MarketingPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan %d: %w", plan.ID, err)
	}
	if err := c.client.Set(ctx, c.key(plan.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache plan %d: %w", plan.ID, err)
	}
	return nil
}

func (c *PlanCache) Invalidate(ctx context.Context, planID int) error {
	return c.client.Del(ctx, c.key(planID)).Err()
}
