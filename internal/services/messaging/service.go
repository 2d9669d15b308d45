package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Config holds configuration for the Discord notifier
type Config struct {
	// Discord session
	Session *discordgo.Session
}

type service struct {
	session *discordgo.Session
}

// New creates a new Discord-backed notifier
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}

	return &service{
		session: cfg.Session,
	}, nil
}

// SendMessage posts a message to a chat and returns its reference
func (s *service) SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	msg, err := s.session.ChannelMessageSendComplex(input.ChatID, &discordgo.MessageSend{
		Content:    input.Text,
		Components: buildComponents(input.Buttons),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return &SendMessageOutput{
		MessageID: msg.ID,
	}, nil
}

// EditMessage replaces the text and buttons of an existing message
func (s *service) EditMessage(ctx context.Context, input *EditMessageInput) error {
	if input == nil || input.ChatID == "" || input.MessageID == "" {
		return errors.New("input, chat ID and message ID cannot be empty")
	}

	components := buildComponents(input.Buttons)

	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    input.ChatID,
		ID:         input.MessageID,
		Content:    &input.Text,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}

	return nil
}

// ClearButtons strips the buttons off an existing message
func (s *service) ClearButtons(ctx context.Context, input *ClearButtonsInput) error {
	if input == nil || input.ChatID == "" || input.MessageID == "" {
		return errors.New("input, chat ID and message ID cannot be empty")
	}

	edit := &discordgo.MessageEdit{
		Channel:    input.ChatID,
		ID:         input.MessageID,
		Components: &[]discordgo.MessageComponent{},
	}
	if input.Text != "" {
		edit.Content = &input.Text
	}

	if _, err := s.session.ChannelMessageEditComplex(edit); err != nil {
		return fmt.Errorf("failed to clear buttons: %w", err)
	}

	return nil
}

// DeleteMessage removes a message; missing messages are not an error
func (s *service) DeleteMessage(ctx context.Context, input *DeleteMessageInput) error {
	if input == nil || input.ChatID == "" || input.MessageID == "" {
		return errors.New("input, chat ID and message ID cannot be empty")
	}

	if err := s.session.ChannelMessageDelete(input.ChatID, input.MessageID); err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

// SendPrivate delivers a message to one player's private channel
func (s *service) SendPrivate(ctx context.Context, input *SendPrivateInput) (*SendPrivateOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	channel, err := s.session.UserChannelCreate(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to open private channel: %w", err)
	}

	components := buildComponents(input.Buttons)

	if input.EditMessageID != "" {
		_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    channel.ID,
			ID:         input.EditMessageID,
			Content:    &input.Text,
			Components: &components,
		})
		if err == nil {
			return &SendPrivateOutput{
				MessageID: input.EditMessageID,
			}, nil
		}
		// The message may have been deleted by the user; fall through
		// and send a fresh one.
		zap.S().Debugw("private edit failed, sending new message",
			"user_id", input.UserID,
			"error", err)
	}

	msg, err := s.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content:    input.Text,
		Components: components,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send private message: %w", err)
	}

	return &SendPrivateOutput{
		MessageID: msg.ID,
	}, nil
}

// buildComponents maps button rows onto Discord message components
func buildComponents(rows [][]Button) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, discordgo.Button{
				Label:    b.Label,
				Style:    discordgo.PrimaryButton,
				CustomID: b.Action,
			})
		}
		components = append(components, discordgo.ActionsRow{
			Components: buttons,
		})
	}
	return components
}
