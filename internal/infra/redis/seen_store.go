package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenStore keeps recently served question texts per topic in a Redis set:
//
//	SADD trivia:seen:{topic} {question text...}
//
// Keys carry a TTL so the avoid list fades out on its own. This is content
// hygiene for the generator, not persistence of match state.
type SeenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSeenStore(client *redis.Client, ttl time.Duration) *SeenStore {
	return &SeenStore{client: client, ttl: ttl}
}

// Recent returns the question texts recorded for a topic.
func (s *SeenStore) Recent(ctx context.Context, topic string) ([]string, error) {
	texts, err := s.client.SMembers(ctx, s.key(topic)).Result()
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// Record adds question texts for a topic and refreshes the key's TTL.
func (s *SeenStore) Record(ctx context.Context, topic string, texts []string) error {
	members := make([]interface{}, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		members = append(members, text)
	}
	if len(members) == 0 {
		return nil
	}

	key := s.key(topic)
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, key, members...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SeenStore) key(topic string) string {
	return "trivia:seen:" + strings.ToLower(strings.TrimSpace(topic))
}
