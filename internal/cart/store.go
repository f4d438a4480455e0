package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL      = 30 * 24 * time.Hour
	maxWatchRetries = 3
)

// RedisStore persists carts and favorites per user. Missing keys read as empty.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: defaultTTL}
}

func (s *RedisStore) GetCart(ctx context.Context, userID string) (Cart, error) {
	c := Cart{Lines: []Line{}}
	if err := s.get(ctx, cartKey(userID), &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, userID string, c Cart) error {
	return s.set(ctx, cartKey(userID), c)
}

// ClearCart drops the user's cart.
func (s *RedisStore) ClearCart(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RemoveLines subtracts ordered lines from the user's current cart. Products
// added after the lines were taken stay in the cart. The read-modify-write
// runs under WATCH and is retried when the cart changes underneath it.
func (s *RedisStore) RemoveLines(ctx context.Context, userID string, lines []Line) error {
	key := cartKey(userID)
	txf := func(tx *redis.Tx) error {
		c := Cart{Lines: []Line{}}
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			return nil
		case err != nil:
			return fmt.Errorf("redis get failed: %w", err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("unmarshal %s failed: %w", key, err)
		}

		next := c.Subtract(lines)
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal %s failed: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next.IsEmpty() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("remove cart lines failed: %w", err)
	}
	return nil
}

func (s *RedisStore) GetFavorites(ctx context.Context, userID string) (Favorites, error) {
	f := Favorites{Products: []catalog.Product{}}
	if err := s.get(ctx, favoritesKey(userID), &f); err != nil {
		return Favorites{}, err
	}
	return f, nil
}

func (s *RedisStore) SaveFavorites(ctx context.Context, userID string, f Favorites) error {
	return s.set(ctx, favoritesKey(userID), f)
}

func (s *RedisStore) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func favoritesKey(userID string) string {
	return fmt.Sprintf("favorites:%s", userID)
}
