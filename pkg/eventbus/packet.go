package eventbus

import (
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// Wire format: msgpack-encoded envelope followed by a single trailing opcode
// byte.

const (
	OpFollowerUpdate uint8 = 0
	OpReactionUpdate uint8 = 1
)

var ErrEmptyPacket = errors.New("empty packet")

type envelope struct {
	Origin string             `msgpack:"origin,omitempty"`
	Body   msgpack.RawMessage `msgpack:"body"`
}

func encodePacket(op uint8, origin string, event interface{}) ([]byte, error) {
	body, err := msgpack.Marshal(event)
	if err != nil {
		return nil, err
	}
	packet, err := msgpack.Marshal(envelope{Origin: origin, Body: body})
	if err != nil {
		return nil, err
	}
	return append(packet, op), nil
}

func decodePacket(packet []byte) (op uint8, origin string, body []byte, err error) {
	if len(packet) < 2 {
		return 0, "", nil, ErrEmptyPacket
	}
	op = packet[len(packet)-1]
	var env envelope
	if err := msgpack.Unmarshal(packet[:len(packet)-1], &env); err != nil {
		return 0, "", nil, err
	}
	return op, env.Origin, env.Body, nil
}

// Dispatch decodes a packet and publishes it on the matching bus. Unknown
// opcodes are skipped so old clients survive new event types.
func (b *Buses) Dispatch(packet []byte) error {
	op, _, body, err := decodePacket(packet)
	if err != nil {
		return err
	}
	return b.dispatch(op, body)
}

func (b *Buses) dispatch(op uint8, body []byte) error {
	switch op {
	case OpFollowerUpdate:
		var e FollowerUpdate
		if err := msgpack.Unmarshal(body, &e); err != nil {
			return err
		}
		b.Followers.Publish(e)
	case OpReactionUpdate:
		var e ReactionUpdate
		if err := msgpack.Unmarshal(body, &e); err != nil {
			return err
		}
		b.Reactions.Publish(e)
	}
	return nil
}

// EncodeFollowerUpdate renders the packet the events fanout publishes.
func EncodeFollowerUpdate(e FollowerUpdate) ([]byte, error) {
	return encodePacket(OpFollowerUpdate, "", e)
}

func EncodeReactionUpdate(e ReactionUpdate) ([]byte, error) {
	return encodePacket(OpReactionUpdate, "", e)
}
