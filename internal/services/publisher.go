package services

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/ad/go-telegram-poster/internal/models"
)

// Sender is the slice of the Telegram API the publisher needs. *bot.Bot
// satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*tgmodels.Message, error)
}

// Publisher turns a completed draft into exactly one outbound send to the
// configured channel. No retries; a failed send is reported back and the
// caller keeps the draft.
type Publisher struct {
	sender    Sender
	channelID int64
}

func NewPublisher(sender Sender, channelID int64) *Publisher {
	return &Publisher{sender: sender, channelID: channelID}
}

func (p *Publisher) Publish(ctx context.Context, draft *models.Draft) error {
	if draft.URL == "" || draft.Label == "" {
		return fmt.Errorf("%w: draft needs a url and a button label", models.ErrValidation)
	}

	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: draft.Label, URL: draft.URL},
			},
		},
	}

	var err error
	if draft.PhotoID != "" {
		_, err = p.sender.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      p.channelID,
			Photo:       &tgmodels.InputFileString{Data: draft.PhotoID},
			Caption:     draft.Text,
			ReplyMarkup: keyboard,
		})
	} else {
		_, err = p.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      p.channelID,
			Text:        draft.Text,
			ReplyMarkup: keyboard,
		})
	}

	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPublish, err)
	}
	return nil
}
