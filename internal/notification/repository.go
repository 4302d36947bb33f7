package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const hashKey = "admin:notifications"

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the persistence seam for admin notifications. The dashboard
// previously mocked these client-side; backing them with Redis keeps them
// shared across operator browsers without another store table.
type Repository interface {
	Add(ctx context.Context, n Notification) (Notification, error)
	List(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type RedisRepository struct {
	redis *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{redis: client}
}

func (r *RedisRepository) Add(ctx context.Context, n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return Notification{}, err
	}
	if err := r.redis.HSet(ctx, hashKey, n.ID, payload).Err(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *RedisRepository) List(ctx context.Context) ([]Notification, error) {
	raw, err := r.redis.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return nil, err
	}

	items := make([]Notification, 0, len(raw))
	for _, payload := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(payload), &n); err != nil {
			continue
		}
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// MarkRead is idempotent: re-marking an already-read notification succeeds.
func (r *RedisRepository) MarkRead(ctx context.Context, id string) error {
	payload, err := r.redis.HGet(ctx, hashKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var n Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return err
	}
	n.Read = true

	updated, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return r.redis.HSet(ctx, hashKey, id, updated).Err()
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.redis.HDel(ctx, hashKey, id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
