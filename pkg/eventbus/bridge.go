package eventbus

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Bridge relays bus traffic between processes over a redis pub/sub channel,
// the way browser tabs of the original client shared a broadcast channel.
// Locally published events go out tagged with this bridge's origin id;
// incoming events from the same origin are skipped so the local bus never
// sees its own traffic twice.
type Bridge struct {
	client  *redis.Client
	channel string
	origin  string
	buses   *Buses
}

func NewBridge(client *redis.Client, channel string, buses *Buses) *Bridge {
	return &Bridge{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		buses:   buses,
	}
}

// Run subscribes to the redis channel and feeds remote events into the local
// buses until ctx is cancelled. Malformed packets are captured and skipped;
// they never take the bridge down.
func (b *Bridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Fail fast if the subscription could not be established.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			packet := []byte(msg.Payload)
			op, origin, body, err := decodePacket(packet)
			if err != nil {
				sentry.CaptureException(err)
				continue
			}
			if origin == b.origin {
				continue
			}
			if err := b.buses.dispatch(op, body); err != nil {
				sentry.CaptureException(err)
			}
		}
	}
}

// PublishFollower publishes locally and relays to the other processes.
func (b *Bridge) PublishFollower(ctx context.Context, e FollowerUpdate) error {
	b.buses.Followers.Publish(e)
	return b.relay(ctx, OpFollowerUpdate, e)
}

// PublishReaction publishes locally and relays to the other processes.
func (b *Bridge) PublishReaction(ctx context.Context, e ReactionUpdate) error {
	b.buses.Reactions.Publish(e)
	return b.relay(ctx, OpReactionUpdate, e)
}

func (b *Bridge) relay(ctx context.Context, op uint8, event interface{}) error {
	packet, err := encodePacket(op, b.origin, event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, packet).Err()
}
