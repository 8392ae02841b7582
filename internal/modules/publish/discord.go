package publish

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/oops"
)

const embedColor = 0x5865F2

// Discord delivers payloads to a single Discord channel as an embed with
// two link buttons.
type Discord struct {
	session     *discordgo.Session
	channelID   string
	pingRoleID  string
	buttonLabel string
}

// NewDiscord opens a Discord session with the given bot token.
func NewDiscord(token, channelID, pingRoleID, buttonLabel string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, oops.With("context", "failed to create discord session").Wrap(err)
	}
	if err := session.Open(); err != nil {
		return nil, oops.With("context", "failed to open discord gateway").Wrap(err)
	}
	if buttonLabel == "" {
		buttonLabel = "🎁 Lien du code"
	}
	return &Discord{
		session:     session,
		channelID:   channelID,
		pingRoleID:  pingRoleID,
		buttonLabel: buttonLabel,
	}, nil
}

// Publish sends the payload. A role ping is used when configured; otherwise
// a spoiler-wrapped @everyone is displayed without notifying anyone.
func (d *Discord) Publish(ctx context.Context, payload Payload) error {
	embed := &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       payload.Title,
		Description: payload.Description,
	}
	if payload.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: payload.ImageURL}
	}

	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style: discordgo.LinkButton,
				Label: "🎁 " + MirrorDomain,
				URL:   payload.SecondaryLinkURL,
			},
			discordgo.Button{
				Style: discordgo.LinkButton,
				Label: d.buttonLabel,
				URL:   payload.PrimaryLinkURL,
			},
		},
	}

	content := "||@everyone||"
	allowed := &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
	if d.pingRoleID != "" {
		content = "<@&" + d.pingRoleID + ">"
		allowed = &discordgo.MessageAllowedMentions{Roles: []string{d.pingRoleID}}
	}

	_, err := d.session.ChannelMessageSendComplex(d.channelID, &discordgo.MessageSend{
		Content:         content,
		Embeds:          []*discordgo.MessageEmbed{embed},
		Components:      []discordgo.MessageComponent{row},
		AllowedMentions: allowed,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return oops.With("channel_id", d.channelID, "context", "discord publish failed").Wrap(err)
	}
	return nil
}

// Close shuts the gateway connection down.
func (d *Discord) Close() error {
	return d.session.Close()
}
