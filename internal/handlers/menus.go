package handlers

import (
	"fmt"

	tgmodels "github.com/go-telegram/bot/models"

	"github.com/ad/go-telegram-poster/internal/models"
)

const maxButtonValueLen = 48

func truncateValue(s string) string {
	runes := []rune(s)
	if len(runes) <= maxButtonValueLen {
		return s
	}
	return string(runes[:maxButtonValueLen-1]) + "…"
}

func mainMenuKeyboard(isOwner bool) *tgmodels.InlineKeyboardMarkup {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "📣 Новый пост", CallbackData: "insert_post"},
			},
			{
				{Text: "📚 Каталог", CallbackData: "manage_catalog"},
			},
		},
	}
	if isOwner {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
			{Text: "👥 Админы", CallbackData: "manage_admins"},
		})
	}
	return keyboard
}

func adminMenuKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "➕ Добавить админа", CallbackData: "add_admin"},
			},
			{
				{Text: "📋 Список админов", CallbackData: "view_admins"},
			},
			{
				{Text: "← Назад", CallbackData: "back_to_main"},
			},
		},
	}
}

func adminListKeyboard(adminIDs []int64) *tgmodels.InlineKeyboardMarkup {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: make([][]tgmodels.InlineKeyboardButton, 0, len(adminIDs)+1),
	}
	for _, id := range adminIDs {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
			{Text: fmt.Sprintf("🗑 %d", id), CallbackData: fmt.Sprintf("remove_admin:%d", id)},
		})
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
		{Text: "← Назад", CallbackData: "manage_admins"},
	})
	return keyboard
}

func catalogMenuKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "➕ Новый URL", CallbackData: "new_url"},
				{Text: "➕ Новая подпись", CallbackData: "new_label"},
			},
			{
				{Text: "📋 URL", CallbackData: "manage_urls"},
				{Text: "📋 Подписи", CallbackData: "manage_labels"},
			},
			{
				{Text: "← Назад", CallbackData: "back_to_main"},
			},
		},
	}
}

// pickKeyboard renders a selection list for post composition: one row per
// entry, a row for adding a brand-new value, and cancel.
func pickKeyboard(entries []models.CatalogEntry, prefix, newToken string) *tgmodels.InlineKeyboardMarkup {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: make([][]tgmodels.InlineKeyboardButton, 0, len(entries)+2),
	}
	for _, e := range entries {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
			{Text: truncateValue(e.Value), CallbackData: fmt.Sprintf("%s:%d", prefix, e.ID)},
		})
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		[]tgmodels.InlineKeyboardButton{
			{Text: "➕ Ввести новое значение", CallbackData: newToken},
		},
		[]tgmodels.InlineKeyboardButton{
			{Text: "❌ Отмена", CallbackData: "cancel"},
		},
	)
	return keyboard
}

// manageKeyboard renders the edit/delete list for catalog management.
// Tapping the value starts an edit, the bin deletes.
func manageKeyboard(entries []models.CatalogEntry, kind string) *tgmodels.InlineKeyboardMarkup {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: make([][]tgmodels.InlineKeyboardButton, 0, len(entries)+1),
	}
	for _, e := range entries {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
			{Text: "✏️ " + truncateValue(e.Value), CallbackData: fmt.Sprintf("edit_%s:%d", kind, e.ID)},
			{Text: "🗑", CallbackData: fmt.Sprintf("delete_%s:%d", kind, e.ID)},
		})
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
		{Text: "← Назад", CallbackData: "manage_catalog"},
	})
	return keyboard
}

func skipCancelKeyboard(skipToken string) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "⏭ Пропустить", CallbackData: skipToken},
			},
			{
				{Text: "❌ Отмена", CallbackData: "cancel"},
			},
		},
	}
}

func cancelKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "❌ Отмена", CallbackData: "cancel"},
			},
		},
	}
}

// confirmKeyboard shows the actual call-to-action button above the
// confirm/cancel controls so the preview matches the published post.
func confirmKeyboard(draft *models.Draft) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: draft.Label, URL: draft.URL},
			},
			{
				{Text: "✅ Подтвердить и отправить", CallbackData: "confirm_post"},
			},
			{
				{Text: "❌ Отмена", CallbackData: "cancel_post"},
			},
		},
	}
}
