package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/ad/go-telegram-poster/internal/models"
)

type fakeSender struct {
	messages []*bot.SendMessageParams
	photos   []*bot.SendPhotoParams
	fail     bool
}

func (s *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	if s.fail {
		return nil, fmt.Errorf("gateway down")
	}
	s.messages = append(s.messages, params)
	return &tgmodels.Message{ID: len(s.messages)}, nil
}

func (s *fakeSender) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*tgmodels.Message, error) {
	if s.fail {
		return nil, fmt.Errorf("gateway down")
	}
	s.photos = append(s.photos, params)
	return &tgmodels.Message{ID: len(s.photos)}, nil
}

func TestPublishTextOnly(t *testing.T) {
	sender := &fakeSender{}
	publisher := NewPublisher(sender, -100123)

	draft := &models.Draft{
		URL:   "https://example.com",
		Label: "Visit",
		Text:  "Hello",
	}

	if err := publisher.Publish(context.Background(), draft); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(sender.messages) != 1 {
		t.Fatalf("Expected exactly one text send, got %d", len(sender.messages))
	}
	if len(sender.photos) != 0 {
		t.Fatalf("Text-only post must not send a photo, got %d", len(sender.photos))
	}

	params := sender.messages[0]
	if params.ChatID != int64(-100123) {
		t.Errorf("Expected channel id -100123, got %v", params.ChatID)
	}
	if params.Text != "Hello" {
		t.Errorf("Expected text %q, got %q", "Hello", params.Text)
	}

	keyboard, ok := params.ReplyMarkup.(*tgmodels.InlineKeyboardMarkup)
	if !ok || len(keyboard.InlineKeyboard) != 1 || len(keyboard.InlineKeyboard[0]) != 1 {
		t.Fatalf("Expected a single-button keyboard, got %v", params.ReplyMarkup)
	}
	button := keyboard.InlineKeyboard[0][0]
	if button.Text != "Visit" || button.URL != "https://example.com" {
		t.Errorf("Unexpected button: %+v", button)
	}
}

func TestPublishWithImageSendsPhotoOnly(t *testing.T) {
	sender := &fakeSender{}
	publisher := NewPublisher(sender, -100123)

	draft := &models.Draft{
		URL:     "https://example.com",
		Label:   "Visit",
		Text:    "Caption",
		PhotoID: "photo-file-id",
	}

	if err := publisher.Publish(context.Background(), draft); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(sender.photos) != 1 {
		t.Fatalf("Expected exactly one photo send, got %d", len(sender.photos))
	}
	if len(sender.messages) != 0 {
		t.Fatalf("Photo post must never also send a text message, got %d", len(sender.messages))
	}
	if sender.photos[0].Caption != "Caption" {
		t.Errorf("Expected caption %q, got %q", "Caption", sender.photos[0].Caption)
	}
}

func TestPublishEmptyCaptionAllowed(t *testing.T) {
	sender := &fakeSender{}
	publisher := NewPublisher(sender, -100123)

	draft := &models.Draft{URL: "https://example.com", Label: "Visit"}

	if err := publisher.Publish(context.Background(), draft); err != nil {
		t.Fatalf("Publish of a button-only post failed: %v", err)
	}
	if len(sender.messages) != 1 || sender.messages[0].Text != "" {
		t.Errorf("Expected one send with empty caption")
	}
}

func TestPublishRequiresURLAndLabel(t *testing.T) {
	sender := &fakeSender{}
	publisher := NewPublisher(sender, -100123)

	for _, draft := range []*models.Draft{
		{Label: "Visit"},
		{URL: "https://example.com"},
		{},
	} {
		err := publisher.Publish(context.Background(), draft)
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("Expected ErrValidation for draft %+v, got %v", draft, err)
		}
	}
	if len(sender.messages) != 0 || len(sender.photos) != 0 {
		t.Error("Invalid drafts must not reach the gateway")
	}
}

func TestPublishFailureSurfacedWithoutRetry(t *testing.T) {
	sender := &fakeSender{fail: true}
	publisher := NewPublisher(sender, -100123)

	draft := &models.Draft{URL: "https://example.com", Label: "Visit", Text: "Hello"}

	err := publisher.Publish(context.Background(), draft)
	if !errors.Is(err, models.ErrPublish) {
		t.Fatalf("Expected ErrPublish, got %v", err)
	}
	if len(sender.messages) != 0 {
		t.Error("No send must be recorded on failure")
	}
}
