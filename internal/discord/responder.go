package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/memohai/quote/internal/quote"
)

type interactionSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// interactionResponder answers one interaction. Discord drops interactions
// not acknowledged within three seconds, so slow commands Defer first. The
// deferred response is public; an ephemeral answer replaces it with an
// ephemeral followup.
type interactionResponder struct {
	session     interactionSession
	interaction *discordgo.Interaction
	deferred    bool
}

func newInteractionResponder(session interactionSession, interaction *discordgo.Interaction) *interactionResponder {
	return &interactionResponder{session: session, interaction: interaction}
}

func (r *interactionResponder) Defer(ctx context.Context) error {
	if r.deferred {
		return nil
	}
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if err := r.session.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord interaction defer: %w", err)
	}
	r.deferred = true
	return nil
}

func (r *interactionResponder) Reply(ctx context.Context, reply quote.Reply) error {
	content := truncateDiscordText(reply.Content)
	embeds := cardsToEmbeds(reply.Cards)
	var flags discordgo.MessageFlags
	if reply.Ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	if !r.deferred {
		resp := &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: content, Embeds: embeds, Flags: flags},
		}
		if err := r.session.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("discord interaction respond: %w", err)
		}
		return nil
	}

	if !reply.Ephemeral {
		if embeds == nil {
			embeds = []*discordgo.MessageEmbed{}
		}
		edit := &discordgo.WebhookEdit{Content: &content, Embeds: &embeds}
		if _, err := r.session.InteractionResponseEdit(r.interaction, edit, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("discord interaction edit: %w", err)
		}
		return nil
	}

	if err := r.session.InteractionResponseDelete(r.interaction, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord interaction delete: %w", err)
	}
	params := &discordgo.WebhookParams{Content: content, Embeds: embeds, Flags: flags}
	if _, err := r.session.FollowupMessageCreate(r.interaction, true, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord interaction followup: %w", err)
	}
	return nil
}
