package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"tierbot/internal/application"
	"tierbot/internal/models"
)

// discordSession is the part of *discordgo.Session the gateway needs.
type discordSession interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Gateway renders application state into Discord messages. It implements
// application.Notifier, application.BoardPublisher and
// application.ComponentResolver.
type Gateway struct {
	session discordSession
}

func NewGateway(session discordSession) *Gateway {
	return &Gateway{session: session}
}

func (g *Gateway) PostApplicationButton(ctx context.Context, channelID string) (string, error) {
	msg, err := g.session.ChannelMessageSendComplex(channelID, applicationButtonMessage(), discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError(err)
	}
	return msg.ID, nil
}

func (g *Gateway) PostApplication(ctx context.Context, channelID string, app *models.Application) (string, error) {
	msg, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{applicationEmbed(app)},
		Components: decisionButtons(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError(err)
	}
	return msg.ID, nil
}

func (g *Gateway) ClosePanel(ctx context.Context, app *models.Application, d models.Decision) error {
	embeds := []*discordgo.MessageEmbed{closedApplicationEmbed(app, d)}
	components := []discordgo.MessageComponent{}

	edit := discordgo.NewMessageEdit(app.ChannelID, app.MessageID)
	edit.Embeds = &embeds
	edit.Components = &components

	_, err := g.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return mapError(err)
}

func (g *Gateway) NotifyDecision(ctx context.Context, app *models.Application, d models.Decision) error {
	return g.directMessage(ctx, app.ApplicantID, decisionDM(d))
}

func (g *Gateway) NotifyTierRemoved(ctx context.Context, userID, actorID string) error {
	return g.directMessage(ctx, userID, tierRemovedDM(actorID))
}

func (g *Gateway) PublishBoard(ctx context.Context, channelID string, board *application.TierBoard) (string, error) {
	msg, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{tierListEmbed(board)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError(err)
	}
	return msg.ID, nil
}

func (g *Gateway) EditBoard(ctx context.Context, channelID, messageID string, board *application.TierBoard) error {
	edit := discordgo.NewMessageEdit(channelID, messageID).SetEmbeds([]*discordgo.MessageEmbed{tierListEmbed(board)})
	_, err := g.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return mapError(err)
}

func (g *Gateway) ResolveChannel(ctx context.Context, channelID string) error {
	_, err := g.session.Channel(channelID, discordgo.WithContext(ctx))
	return mapError(err)
}

func (g *Gateway) ResolveMessage(ctx context.Context, channelID, messageID string) error {
	_, err := g.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	return mapError(err)
}

func (g *Gateway) directMessage(ctx context.Context, userID, content string) error {
	ch, err := g.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	_, err = g.session.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return mapError(err)
}

// mapError turns Discord's "unknown channel/message" answers into
// models.ErrNotFound and keeps every other error as is.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage:
			return fmt.Errorf("%w: %v", models.ErrNotFound, err)
		}
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}
	return err
}
