package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/memohai/quote/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponderReplyWithoutDefer(t *testing.T) {
	gateway := &fakeGateway{}
	r := newInteractionResponder(gateway, &discordgo.Interaction{ID: "i1"})

	require.NoError(t, r.Reply(context.Background(), quote.Reply{Content: "nope", Ephemeral: true}))

	require.Len(t, gateway.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, gateway.responses[0].Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, gateway.responses[0].Data.Flags)
	assert.Empty(t, gateway.edits)
	assert.Empty(t, gateway.followups)
}

func TestResponderDeferThenEdit(t *testing.T) {
	gateway := &fakeGateway{}
	r := newInteractionResponder(gateway, &discordgo.Interaction{ID: "i1"})
	ctx := context.Background()

	require.NoError(t, r.Defer(ctx))
	require.NoError(t, r.Defer(ctx), "second defer is a no-op")
	require.NoError(t, r.Reply(ctx, quote.Reply{Cards: []quote.Card{{Description: "quoted"}}}))

	require.Len(t, gateway.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, gateway.responses[0].Type)
	require.Len(t, gateway.edits, 1)
	embeds := *gateway.edits[0].Embeds
	require.Len(t, embeds, 1)
	assert.Equal(t, "quoted", embeds[0].Description)
	assert.Zero(t, gateway.deletes)
	assert.Empty(t, gateway.followups)
}

func TestResponderDeferThenEphemeral(t *testing.T) {
	gateway := &fakeGateway{}
	r := newInteractionResponder(gateway, &discordgo.Interaction{ID: "i1"})
	ctx := context.Background()

	require.NoError(t, r.Defer(ctx))
	require.NoError(t, r.Reply(ctx, quote.Reply{Content: "not found", Ephemeral: true}))

	assert.Empty(t, gateway.edits)
	assert.Equal(t, 1, gateway.deletes, "public placeholder is removed")
	require.Len(t, gateway.followups, 1)
	assert.Equal(t, "not found", gateway.followups[0].Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, gateway.followups[0].Flags)
}
