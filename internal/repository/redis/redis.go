package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client 全局连接，承载会话 token、邮箱验证码和浏览热计数
var Client *redis.Client

// Init 建连并 Ping 一次，失败直接让启动挂掉
func Init(addr, password string, db int) error {
	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return Client.Ping(ctx).Err()
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
