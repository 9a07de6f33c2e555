package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/chordedit/internal/utils"
)

type DBManager struct {
	client *redisClient.Client
}

func NewDBManager() (*DBManager, error) {
	env, err := utils.LoadEnv([]string{"REDIS_URL", "REDIS_PASSWORD"})
	if err != nil {
		return nil, fmt.Errorf("failed to load redis env: %w", err)
	}
	opt, err := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", env["REDIS_PASSWORD"], env["REDIS_URL"]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &DBManager{client: redisClient.NewClient(opt)}, nil
}

// NewDBManagerWithClient wraps an existing redis client
func NewDBManagerWithClient(client *redisClient.Client) *DBManager {
	return &DBManager{client: client}
}

// SaveDraft stores the draft text for a song edited in a chat
func (redis *DBManager) SaveDraft(ctx context.Context, chatID int64, songID, text string) error {
	data, err := encodeDraft(Draft{SongID: songID, ChatID: chatID, Text: text, SavedAt: time.Now()})
	if err != nil {
		return err
	}
	if err := redis.client.Set(ctx, draftKey(chatID, songID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft for chat %d and song ID %s: %w", chatID, songID, err)
	}
	return nil
}

// GetDraft returns the stored draft, if any
func (redis *DBManager) GetDraft(ctx context.Context, chatID int64, songID string) (Draft, bool, error) {
	data, err := redis.client.Get(ctx, draftKey(chatID, songID)).Bytes()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return Draft{}, false, nil
		}
		return Draft{}, false, err
	}
	draft, err := decodeDraft(data)
	if err != nil {
		return Draft{}, false, fmt.Errorf("failed to decode draft: %w", err)
	}
	return draft, true, nil
}

// DeleteDraft drops the draft once it has been saved to the songbook
func (redis *DBManager) DeleteDraft(ctx context.Context, chatID int64, songID string) error {
	return redis.client.Del(ctx, draftKey(chatID, songID)).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}
