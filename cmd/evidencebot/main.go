package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"evidencebot/internal/bot"
	"evidencebot/internal/queue"
	"evidencebot/internal/session"
	"evidencebot/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_TOKEN not set in environment")
	}

	reviewChatID, err := strconv.ParseInt(os.Getenv("REVIEW_CHAT_ID"), 10, 64)
	if err != nil {
		log.Fatalf("REVIEW_CHAT_ID not set or invalid: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		redisDB, err = strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("REDIS_DB invalid: %v", err)
		}
	}

	client, err := telegram.NewClient(token)
	if err != nil {
		log.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis ping failed (%s): %v", redisAddr, err)
	}
	store := session.NewFromClient(rdb)

	me, err := client.GetMe(context.Background())
	if err != nil {
		log.Fatalf("getMe error: %v", err)
	}
	log.Printf("authorized as @%s", me.Username)

	dispatcher := &bot.Dispatcher{
		Transport: client,
		Store:     store,
		Meta: bot.Meta{
			BotUsername:  me.Username,
			ReviewChatID: reviewChatID,
		},
	}
	if list := os.Getenv("SUBMISSION_QUEUE"); list != "" {
		dispatcher.Sink = queue.New(rdb, list)
		log.Printf("submission events -> redis list %q", list)
	}

	log.Println("Starting evidencebot long-polling...")

	offset := 0
	for {
		updates, err := client.GetUpdates(context.Background(), offset, 30)
		if err != nil {
			log.Printf("getUpdates error: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil {
				continue
			}
			if err := dispatcher.HandleMessage(context.Background(), u.Message); err != nil {
				// Drop the event; the session keeps its pre-event state and
				// the user can retry with another message.
				log.Printf("handle message error (chat %d): %v", u.Message.Chat.ID, err)
			}
		}
	}
}
