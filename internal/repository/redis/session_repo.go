package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found")

// SessionTTL 会话滑动过期窗口，每次通过鉴权都会顺延
const SessionTTL = 30 * time.Minute

const sessionKeyPrefix = "session:token:"

func sessionKey(userID uint64) string {
	return sessionKeyPrefix + strconv.FormatUint(userID, 10)
}

// SessionRepository 单会话 token 存储：一个用户同时只有一个有效会话，
// 新 token 写入即顶掉旧的
type SessionRepository struct{}

func (r *SessionRepository) Save(ctx context.Context, userID uint64, token string) error {
	return Client.Set(ctx, sessionKey(userID), token, SessionTTL).Err()
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := Client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return token, err
}

// Touch 顺延会话过期时间；key 已经不在说明会话失效
func (r *SessionRepository) Touch(ctx context.Context, userID uint64) error {
	ok, err := Client.Expire(ctx, sessionKey(userID), SessionTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	return Client.Del(ctx, sessionKey(userID)).Err()
}
