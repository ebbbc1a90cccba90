package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotClaimed is returned when another request already holds the claim
// for a slot.
var ErrSlotClaimed = errors.New("slot is claimed by another booking")

// SlotGate is a fast-path filter in front of the database for concurrent
// bookings of the same slot. The database reservation remains authoritative;
// a gate only turns away obvious losers early.
type SlotGate interface {
	// Claim returns a token identifying the claim, or ErrSlotClaimed.
	Claim(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) (string, error)
	// Abandon drops a claim after the booking failed. Only the holder of
	// token can abandon it.
	Abandon(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime, token string) error
	// Release frees a slot whose appointment was cancelled.
	Release(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) error
}

// abandonClaimScript deletes a claim only if it still belongs to the caller.
// Redis runs it atomically, so a claim re-taken by another booking in the
// meantime is never deleted by mistake.
var abandonClaimScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// RedisSlotKeyPrefix prefixes every slot claim key
	RedisSlotKeyPrefix = "slot:claim:"

	// claim value of keys rebuilt from the database
	syncedClaimToken = "db"

	// Batch size for startup sync
	syncBatchSize = 500
)

// RedisSlotGate keeps one key per occupied slot:
//
//	slot:claim:{contractor}:{D_M_YYYY}:{label} = claim token
//
// Keys expire one day after the slot date.
type RedisSlotGate struct {
	redisClient *redis.Client
	slotRepo    repository.SlotRepository
	log         *logrus.Logger
	loc         *time.Location
}

func NewRedisSlotGate(redisClient *redis.Client, slotRepo repository.SlotRepository, log *logrus.Logger, loc *time.Location) *RedisSlotGate {
	if loc == nil {
		loc = time.UTC
	}
	return &RedisSlotGate{
		redisClient: redisClient,
		slotRepo:    slotRepo,
		log:         log,
		loc:         loc,
	}
}

func (g *RedisSlotGate) Claim(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) (string, error) {
	token := uuid.NewString()
	key := SlotClaimKey(contractorID, date, slotTime)

	ok, err := g.redisClient.SetNX(ctx, key, token, g.calculateTTL(date)).Result()
	if err != nil {
		return "", fmt.Errorf("claim slot %s: %w", key, err)
	}
	if !ok {
		return "", ErrSlotClaimed
	}

	g.log.Debugf("Claimed slot %s with token %s", key, token)
	return token, nil
}

func (g *RedisSlotGate) Abandon(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime, token string) error {
	key := SlotClaimKey(contractorID, date, slotTime)
	if err := abandonClaimScript.Run(ctx, g.redisClient, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("abandon slot claim %s: %w", key, err)
	}
	g.log.Debugf("Abandoned slot claim %s", key)
	return nil
}

func (g *RedisSlotGate) Release(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) error {
	key := SlotClaimKey(contractorID, date, slotTime)
	if err := g.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release slot %s: %w", key, err)
	}
	g.log.Debugf("Released slot %s", key)
	return nil
}

// SyncOnStartup rebuilds claim keys for every reservation from today on.
// Reservations are processed in batches of syncBatchSize, each flushed with
// its own pipeline so memory use stays flat.
//
// Should be called before accepting traffic.
func (g *RedisSlotGate) SyncOnStartup(ctx context.Context) error {
	g.log.Info("Starting Redis slot claim re-sync from database...")
	startTime := time.Now()

	if err := g.redisClient.Ping(ctx).Err(); err != nil {
		g.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := entity.SlotDateOf(time.Now().In(g.loc))
	offset := 0
	totalSynced := 0

	for {
		reservations, err := g.slotRepo.FindSince(ctx, today, offset, syncBatchSize)
		if err != nil {
			g.log.Errorf("Failed to query reservations at offset %d: %+v", offset, err)
			return fmt.Errorf("query reservations at offset %d: %w", offset, err)
		}
		if len(reservations) == 0 {
			break
		}

		pipe := g.redisClient.Pipeline()
		for _, r := range reservations {
			pipe.Set(ctx, SlotClaimKey(r.ContractorID, r.SlotDate, r.SlotTime), syncedClaimToken, g.calculateTTL(r.SlotDate))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			g.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(reservations)
		if len(reservations) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	g.log.Infof("Redis slot claim re-sync completed: %d slots synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// calculateTTL returns TTL: 24 hours after the end of the slot date
func (g *RedisSlotGate) calculateTTL(date entity.SlotDate) time.Duration {
	ttl := time.Until(date.In(g.loc).AddDate(0, 0, 2))
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}

// SlotClaimKey builds the Redis key of a slot claim.
func SlotClaimKey(contractorID uuid.UUID, date entity.SlotDate, slotTime string) string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotKeyPrefix, contractorID, date.Key(), slotTime)
}
