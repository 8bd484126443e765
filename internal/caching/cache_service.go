package caching

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"rentalhub/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix             = "rentalhub:"
	propertyGenerationKey = keyPrefix + "properties:gen"
)

type CacheService interface {
	// Property listing caching
	GetPropertyList(ctx context.Context, filter models.PropertyFilter) (properties []*models.Property, generation int64, hit bool, err error)
	SetPropertyList(ctx context.Context, generation int64, filter models.PropertyFilter, properties []*models.Property, ttl time.Duration) error
	InvalidatePropertyLists(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

// ListCacheKey derives the listing key from the filter and the current
// generation. Bumping the generation orphans every earlier key, which then
// expires by TTL.
func ListCacheKey(generation int64, filter models.PropertyFilter) string {
	params := map[string]string{
		"location": strings.ToLower(strings.TrimSpace(filter.Location)),
	}
	if filter.Type != nil {
		params["type"] = string(*filter.Type)
	}
	if filter.Status != nil {
		params["status"] = string(*filter.Status)
	}
	if filter.MinPrice != nil {
		params["minPrice"] = strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64)
	}
	if filter.MaxPrice != nil {
		params["maxPrice"] = strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64)
	}
	if filter.AgentID != nil {
		params["agentId"] = filter.AgentID.String()
	}
	return GenerateQueryCacheKey(fmt.Sprintf("%sproperties:list:%d", keyPrefix, generation), params)
}

// GenerateQueryCacheKey hashes sorted query params under prefix.
func GenerateQueryCacheKey(prefix string, queryParams map[string]string) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(queryParams[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}

func (r *redisCacheService) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, propertyGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetPropertyList returns the cached listing and the generation it was looked
// up under. On a miss, pass that generation to SetPropertyList so a write that
// lands in between cannot be masked by stale data.
func (r *redisCacheService) GetPropertyList(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, int64, bool, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := r.client.Get(ctx, ListCacheKey(gen, filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil // cache miss
		}
		return nil, gen, false, err
	}

	var properties []*models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, gen, false, err
	}
	return properties, gen, true, nil
}

func (r *redisCacheService) SetPropertyList(ctx context.Context, gen int64, filter models.PropertyFilter, properties []*models.Property, ttl time.Duration) error {
	data, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ListCacheKey(gen, filter), data, ttl).Err()
}

func (r *redisCacheService) InvalidatePropertyLists(ctx context.Context) error {
	return r.client.Incr(ctx, propertyGenerationKey).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%sratelimit:%s", keyPrefix, key)

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, cacheKey)
	ttl := pipe.TTL(ctx, cacheKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	// reapply the window whenever the counter has no TTL
	if ttl.Val() < 0 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return incr.Val() > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
