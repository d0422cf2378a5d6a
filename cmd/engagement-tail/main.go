package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/devsphere/engagement/pkg/eventbus"
	"github.com/devsphere/engagement/pkg/rdb"
)

// engagement-tail subscribes to the engagement event channel and logs
// follower and reaction updates as they flow. Handy for checking that the
// bridge wiring of a deployment actually fans out.
func main() {
	// Load dotenv
	godotenv.Load()

	// Init Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn: os.Getenv("SENTRY_DSN"),
	}); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init Redis
	if err := rdb.Init(ctx, os.Getenv("REDIS_URI")); err != nil {
		panic(err)
	}

	// Event channel
	channel := os.Getenv("EVENTS_CHANNEL")
	if channel == "" {
		channel = "engagement"
	}

	buses := eventbus.NewBuses()
	defer buses.Close()
	bridge := eventbus.NewBridge(rdb.Client, channel, buses)

	followers := buses.Followers.Subscribe()
	reactions := buses.Reactions.Subscribe()

	go func() {
		for {
			select {
			case e, ok := <-followers:
				if !ok {
					return
				}
				log.Printf("follower-update user=%s count=%d following=%t", e.UserId, e.Count, e.Following)
			case e, ok := <-reactions:
				if !ok {
					return
				}
				log.Printf("reaction-update comment=%s emoji=%s count=%d removed=%t", e.CommentId, e.Emoji, e.Count, e.Removed)
			}
		}
	}()

	log.Println("Tailing engagement events on channel " + channel)
	if err := bridge.Run(ctx); err != nil && err != context.Canceled {
		sentry.CaptureException(err)
		log.Println(err)
	}

	// Wait for Sentry events to flush
	sentry.Flush(time.Second * 5)
}
