package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
)

// Lookaside caching for identity lookups. The cache is strictly
// best-effort: any Redis failure falls through to the underlying
// repository. TTLs are short so a deactivated account is shut out
// within one cache window; provisioning writes invalidate eagerly.

type cachedStaffRepository struct {
	StaffRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStaffRepository wraps a StaffRepository with a Redis
// lookaside cache on GetByID.
func NewCachedStaffRepository(inner StaffRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) StaffRepository {
	if client == nil {
		return inner
	}
	return &cachedStaffRepository{StaffRepository: inner, client: client, ttl: ttl, logger: logger}
}

func staffCacheKey(id string) string { return "identity:staff:" + id }

func (r *cachedStaffRepository) GetByID(ctx context.Context, id string) (*domain.StaffIdentity, error) {
	if payload, err := r.client.Get(ctx, staffCacheKey(id)).Bytes(); err == nil {
		var staff domain.StaffIdentity
		if err := json.Unmarshal(payload, &staff); err == nil {
			return &staff, nil
		}
	}

	staff, err := r.StaffRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(staff); err == nil {
		if err := r.client.Set(ctx, staffCacheKey(id), payload, r.ttl).Err(); err != nil {
			r.logger.Warn("staff cache set failed", zap.String("id", id), zap.Error(err))
		}
	}
	return staff, nil
}

func (r *cachedStaffRepository) Create(ctx context.Context, staff *domain.StaffIdentity) error {
	if err := r.StaffRepository.Create(ctx, staff); err != nil {
		return err
	}
	r.invalidate(ctx, staff.ID)
	return nil
}

func (r *cachedStaffRepository) Update(ctx context.Context, staff *domain.StaffIdentity) error {
	if err := r.StaffRepository.Update(ctx, staff); err != nil {
		return err
	}
	r.invalidate(ctx, staff.ID)
	return nil
}

func (r *cachedStaffRepository) Delete(ctx context.Context, id string) error {
	if err := r.StaffRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedStaffRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, staffCacheKey(id)).Err(); err != nil {
		r.logger.Warn("staff cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}

type cachedYouthRepository struct {
	YouthRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedYouthRepository wraps a YouthRepository with a Redis
// lookaside cache on GetByID.
func NewCachedYouthRepository(inner YouthRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) YouthRepository {
	if client == nil {
		return inner
	}
	return &cachedYouthRepository{YouthRepository: inner, client: client, ttl: ttl, logger: logger}
}

func youthCacheKey(id string) string { return "identity:youth:" + id }

func (r *cachedYouthRepository) GetByID(ctx context.Context, id string) (*domain.YouthIdentity, error) {
	if payload, err := r.client.Get(ctx, youthCacheKey(id)).Bytes(); err == nil {
		var youth domain.YouthIdentity
		if err := json.Unmarshal(payload, &youth); err == nil {
			return &youth, nil
		}
	}

	youth, err := r.YouthRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(youth); err == nil {
		if err := r.client.Set(ctx, youthCacheKey(id), payload, r.ttl).Err(); err != nil {
			r.logger.Warn("youth cache set failed", zap.String("id", id), zap.Error(err))
		}
	}
	return youth, nil
}

func (r *cachedYouthRepository) Create(ctx context.Context, youth *domain.YouthIdentity) error {
	if err := r.YouthRepository.Create(ctx, youth); err != nil {
		return err
	}
	r.invalidate(ctx, youth.ID)
	return nil
}

func (r *cachedYouthRepository) Update(ctx context.Context, youth *domain.YouthIdentity) error {
	if err := r.YouthRepository.Update(ctx, youth); err != nil {
		return err
	}
	r.invalidate(ctx, youth.ID)
	return nil
}

func (r *cachedYouthRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, youthCacheKey(id)).Err(); err != nil {
		r.logger.Warn("youth cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}
