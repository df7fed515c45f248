package rdx

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Connect dials Redis and verifies it with PING.
func Connect(ctx context.Context, addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis %s: %w", addr, err)
	}

	Conn = client
	log.Printf("Connected to Redis at %s", addr)
	return nil
}

func Close() {
	if Conn == nil {
		return
	}
	if err := Conn.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
}
