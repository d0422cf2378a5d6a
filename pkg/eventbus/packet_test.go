package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchFollowerUpdate(t *testing.T) {
	buses := NewBuses()
	sub := buses.Followers.Subscribe()

	packet, err := EncodeFollowerUpdate(FollowerUpdate{UserId: "u1", Count: 3, Following: true})
	require.NoError(t, err)

	require.NoError(t, buses.Dispatch(packet))

	e := <-sub
	assert.Equal(t, FollowerUpdate{UserId: "u1", Count: 3, Following: true}, e)
}

func TestDispatchReactionUpdate(t *testing.T) {
	buses := NewBuses()
	sub := buses.Reactions.Subscribe()

	packet, err := EncodeReactionUpdate(ReactionUpdate{
		CommentId: "c1", Emoji: "👍", Count: 2, UserId: "u1",
	})
	require.NoError(t, err)

	require.NoError(t, buses.Dispatch(packet))

	e := <-sub
	assert.Equal(t, "c1", e.CommentId)
	assert.Equal(t, "👍", e.Emoji)
	assert.Equal(t, int64(2), e.Count)
	assert.False(t, e.Removed)
}

func TestDispatchUnknownOpcodeSkipped(t *testing.T) {
	buses := NewBuses()
	sub := buses.Followers.Subscribe()

	packet, err := encodePacket(250, "", FollowerUpdate{UserId: "u1"})
	require.NoError(t, err)

	require.NoError(t, buses.Dispatch(packet))

	select {
	case <-sub:
		t.Fatal("unknown opcode must not reach subscribers")
	default:
	}
}

func TestDispatchMalformedPacket(t *testing.T) {
	buses := NewBuses()
	assert.ErrorIs(t, buses.Dispatch(nil), ErrEmptyPacket)
	assert.ErrorIs(t, buses.Dispatch([]byte{OpFollowerUpdate}), ErrEmptyPacket)
	assert.Error(t, buses.Dispatch([]byte{0xff, 0xff, OpFollowerUpdate}))
}

func TestPacketCarriesOrigin(t *testing.T) {
	packet, err := encodePacket(OpFollowerUpdate, "bridge-a", FollowerUpdate{UserId: "u1"})
	require.NoError(t, err)

	op, origin, _, err := decodePacket(packet)
	require.NoError(t, err)
	assert.Equal(t, OpFollowerUpdate, op)
	assert.Equal(t, "bridge-a", origin)
}
