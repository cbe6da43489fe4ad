package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const Header = "Idempotency-Key"

func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

var ErrInProgress = errors.New("request with this key is still in progress")

const (
	statePending = "pending"
	stateDone    = "done"
)

// Response is a completed response kept for replay.
type Response struct {
	State       string `json:"state"`
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type Store struct {
	client  redis.Cmdable
	service string
	ttl     time.Duration
}

func NewStore(client redis.Cmdable, service string, ttl time.Duration) *Store {
	return &Store{client: client, service: service, ttl: ttl}
}

// Reserve claims key for a new request. If a completed response already exists it is
// returned with replay=true. A key claimed by a request that has not finished yields ErrInProgress.
func (s *Store) Reserve(ctx context.Context, operation, key string) (res Response, replay bool, err error) {
	k := s.redisKey(operation, key)
	pending, err := json.Marshal(Response{State: statePending})
	if err != nil {
		return Response{}, false, err
	}

	// the second pass covers a key that expired between SETNX and GET
	for range 2 {
		ok, err := s.client.SetNX(ctx, k, pending, s.ttl).Result()
		if err != nil {
			return Response{}, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if ok {
			return Response{}, false, nil
		}

		data, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return Response{}, false, fmt.Errorf("failed to read idempotency key: %w", err)
		}

		if err := json.Unmarshal(data, &res); err != nil {
			return Response{}, false, fmt.Errorf("failed to decode idempotency record: %w", err)
		}
		if res.State != stateDone {
			return Response{}, false, ErrInProgress
		}
		return res, true, nil
	}
	return Response{}, false, ErrInProgress
}

// Complete stores the final response for a key reserved by this request.
func (s *Store) Complete(ctx context.Context, operation, key string, res Response) error {
	res.State = stateDone
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := s.client.SetXX(ctx, s.redisKey(operation, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release frees a reserved key so the client may retry.
func (s *Store) Release(ctx context.Context, operation, key string) error {
	if err := s.client.Del(ctx, s.redisKey(operation, key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (s *Store) redisKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.service, operation, key)
}
