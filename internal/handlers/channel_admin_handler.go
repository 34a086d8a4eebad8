package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/ad/go-telegram-poster/internal/fsm"
	"github.com/ad/go-telegram-poster/internal/models"
	"github.com/ad/go-telegram-poster/internal/services"
	"github.com/ad/go-telegram-poster/internal/session"
)

// ChannelAdminHandler drives the conversation: it resolves the caller's
// session state, applies the role guard, performs the state-local action
// and renders the next prompt. Unrecognized events re-render the current
// prompt and never change state.
type ChannelAdminHandler struct {
	bot       Gateway
	registry  *services.AdminRegistry
	catalog   *services.Catalog
	publisher *services.Publisher
	sessions  *session.Store
}

func NewChannelAdminHandler(
	b Gateway,
	registry *services.AdminRegistry,
	catalog *services.Catalog,
	publisher *services.Publisher,
	sessions *session.Store,
) *ChannelAdminHandler {
	return &ChannelAdminHandler{
		bot:       b,
		registry:  registry,
		catalog:   catalog,
		publisher: publisher,
		sessions:  sessions,
	}
}

func (h *ChannelAdminHandler) HandleCommand(ctx context.Context, msg *tgmodels.Message) bool {
	if msg.From == nil {
		return false
	}

	switch msg.Text {
	case "/start", "/admin":
		h.resetToMainMenu(msg.From.ID)
		h.showMainMenu(ctx, msg.From.ID, msg.Chat.ID, 0, "")
		return true
	case "/cancel":
		log.Printf("[CHANNEL_ADMIN] /cancel command for user %d", msg.From.ID)
		h.resetToMainMenu(msg.From.ID)
		h.sendText(ctx, msg.Chat.ID, "Действие отменено.")
		h.showMainMenu(ctx, msg.From.ID, msg.Chat.ID, 0, "")
		return true
	default:
		return false
	}
}

func (h *ChannelAdminHandler) HandleMessage(ctx context.Context, msg *tgmodels.Message) bool {
	if msg.From == nil {
		return false
	}
	if !h.registry.IsPrivileged(msg.From.ID) {
		return false
	}

	sess := h.sessions.Get(msg.From.ID)
	if sess == nil {
		return false
	}

	switch sess.State {
	case fsm.StateAddAdmin:
		h.handleAddAdminInput(ctx, msg, sess)
		return true
	case fsm.StateAddURL:
		h.handleAddURLInput(ctx, msg, sess)
		return true
	case fsm.StateAddLabel:
		h.handleAddLabelInput(ctx, msg, sess)
		return true
	case fsm.StateEditURL:
		h.handleEditURLInput(ctx, msg, sess)
		return true
	case fsm.StateEditLabel:
		h.handleEditLabelInput(ctx, msg, sess)
		return true
	case fsm.StateTextPrompt:
		h.handlePostTextInput(ctx, msg, sess)
		return true
	case fsm.StateImagePrompt:
		h.handlePostImageInput(ctx, msg, sess)
		return true
	default:
		return false
	}
}

func (h *ChannelAdminHandler) HandleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) bool {
	msg := callback.Message.Message
	if msg == nil {
		return false
	}

	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	userID := callback.From.ID
	chatID := msg.Chat.ID
	messageID := msg.ID
	data := callback.Data

	sess := h.sessions.Get(userID)
	if sess == nil {
		sess = &session.Session{UserID: userID, State: fsm.StateMainMenu}
		h.sessions.Save(sess)
	}

	switch data {
	case "cancel", "cancel_post":
		h.resetToMainMenu(userID)
		h.deleteMessage(ctx, chatID, messageID)
		h.showMainMenu(ctx, userID, chatID, 0, "")
		return true

	case "back_to_main":
		sess.State = fsm.StateMainMenu
		sess.Draft = models.Draft{}
		h.sessions.Save(sess)
		h.showMainMenu(ctx, userID, chatID, messageID, "")
		return true

	case "manage_admins":
		if !h.registry.IsOwner(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Управление админами доступно только владельцу.")
			return true
		}
		sess.State = fsm.StateAdminMenu
		h.sessions.Save(sess)
		h.showAdminMenu(ctx, chatID, messageID, "")
		return true

	case "add_admin":
		if !h.registry.IsOwner(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Управление админами доступно только владельцу.")
			return true
		}
		sess.State = fsm.StateAddAdmin
		h.sessions.Save(sess)
		h.prompt(ctx, sess, chatID, messageID, "Отправьте числовой Telegram ID нового админа.", cancelKeyboard())
		return true

	case "view_admins":
		if !h.registry.IsOwner(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Управление админами доступно только владельцу.")
			return true
		}
		sess.State = fsm.StateViewAdmins
		h.sessions.Save(sess)
		h.showAdminList(ctx, chatID, messageID, "")
		return true

	case "manage_catalog":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
			return true
		}
		sess.State = fsm.StateCatalogMenu
		sess.Draft = models.Draft{Flow: models.FlowCatalog}
		h.sessions.Save(sess)
		h.showCatalogMenu(ctx, chatID, messageID, "")
		return true

	case "new_url":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
			return true
		}
		if sess.State != fsm.StateURLSelection {
			sess.Draft.Flow = models.FlowCatalog
		}
		sess.State = fsm.StateAddURL
		h.sessions.Save(sess)
		h.prompt(ctx, sess, chatID, messageID, "Отправьте URL.", cancelKeyboard())
		return true

	case "new_label":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
			return true
		}
		if sess.State != fsm.StateLabelSelection {
			sess.Draft.Flow = models.FlowCatalog
		}
		sess.State = fsm.StateAddLabel
		h.sessions.Save(sess)
		h.prompt(ctx, sess, chatID, messageID, "Отправьте текст подписи для кнопки.", cancelKeyboard())
		return true

	case "manage_urls":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
			return true
		}
		sess.State = fsm.StateViewURLs
		h.sessions.Save(sess)
		h.showURLManage(ctx, chatID, messageID, "")
		return true

	case "manage_labels":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
			return true
		}
		sess.State = fsm.StateViewLabels
		h.sessions.Save(sess)
		h.showLabelManage(ctx, chatID, messageID, "")
		return true

	case "insert_post":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Создавать посты могут только админы.")
			return true
		}
		sess.State = fsm.StateURLSelection
		sess.Draft = models.Draft{Flow: models.FlowCompose}
		h.sessions.Save(sess)
		h.showURLPick(ctx, chatID, messageID, "")
		return true

	case "skip_text":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Создавать посты могут только админы.")
			return true
		}
		if sess.State != fsm.StateTextPrompt {
			h.renderCurrent(ctx, sess, chatID, messageID, "")
			return true
		}
		sess.Draft.Text = ""
		sess.State = fsm.StateImagePrompt
		h.sessions.Save(sess)
		h.prompt(ctx, sess, chatID, messageID, "Отправьте изображение для поста или нажмите «Пропустить».", skipCancelKeyboard("skip_image"))
		return true

	case "skip_image":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Создавать посты могут только админы.")
			return true
		}
		if sess.State != fsm.StateImagePrompt {
			h.renderCurrent(ctx, sess, chatID, messageID, "")
			return true
		}
		sess.Draft.PhotoID = ""
		sess.State = fsm.StateConfirmPost
		h.sessions.Save(sess)
		h.deleteMessage(ctx, chatID, messageID)
		h.showConfirm(ctx, sess, chatID)
		return true

	case "confirm_post":
		if !h.registry.IsPrivileged(userID) {
			h.denyAccess(ctx, sess, chatID, messageID, "⛔ Создавать посты могут только админы.")
			return true
		}
		h.handlePostConfirmation(ctx, sess, chatID, messageID)
		return true
	}

	if value, ok := strings.CutPrefix(data, "url:"); ok {
		h.handleURLPicked(ctx, sess, chatID, messageID, value)
		return true
	}
	if value, ok := strings.CutPrefix(data, "label:"); ok {
		h.handleLabelPicked(ctx, sess, chatID, messageID, value)
		return true
	}
	if value, ok := strings.CutPrefix(data, "edit_url:"); ok {
		h.handleEditEntryStart(ctx, sess, chatID, messageID, models.EditKindURL, value)
		return true
	}
	if value, ok := strings.CutPrefix(data, "edit_label:"); ok {
		h.handleEditEntryStart(ctx, sess, chatID, messageID, models.EditKindLabel, value)
		return true
	}
	if value, ok := strings.CutPrefix(data, "delete_url:"); ok {
		h.handleDeleteEntry(ctx, sess, chatID, messageID, models.EditKindURL, value)
		return true
	}
	if value, ok := strings.CutPrefix(data, "delete_label:"); ok {
		h.handleDeleteEntry(ctx, sess, chatID, messageID, models.EditKindLabel, value)
		return true
	}
	if value, ok := strings.CutPrefix(data, "remove_admin:"); ok {
		h.handleRemoveAdmin(ctx, sess, chatID, messageID, value)
		return true
	}

	log.Printf("[CHANNEL_ADMIN] Unknown callback %q in state %q", data, sess.State)
	h.renderCurrent(ctx, sess, chatID, messageID, "")
	return true
}

// ----- callback actions -----

func (h *ChannelAdminHandler) handleURLPicked(ctx context.Context, sess *session.Session, chatID int64, messageID int, idStr string) {
	if !h.registry.IsPrivileged(sess.UserID) {
		h.denyAccess(ctx, sess, chatID, messageID, "⛔ Создавать посты могут только админы.")
		return
	}
	if sess.State != fsm.StateURLSelection {
		h.renderCurrent(ctx, sess, chatID, messageID, "")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.showURLPick(ctx, chatID, messageID, "")
		return
	}
	entry, ok := h.catalog.URLByID(id)
	if !ok {
		h.showURLPick(ctx, chatID, messageID, "⚠️ Этот URL уже удалён, выберите другой.")
		return
	}

	sess.Draft.URL = entry.Value
	sess.State = fsm.StateLabelSelection
	h.sessions.Save(sess)
	h.showLabelPick(ctx, chatID, messageID, "")
}

func (h *ChannelAdminHandler) handleLabelPicked(ctx context.Context, sess *session.Session, chatID int64, messageID int, idStr string) {
	if !h.registry.IsPrivileged(sess.UserID) {
		h.denyAccess(ctx, sess, chatID, messageID, "⛔ Создавать посты могут только админы.")
		return
	}
	if sess.State != fsm.StateLabelSelection {
		h.renderCurrent(ctx, sess, chatID, messageID, "")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.showLabelPick(ctx, chatID, messageID, "")
		return
	}
	entry, ok := h.catalog.LabelByID(id)
	if !ok {
		h.showLabelPick(ctx, chatID, messageID, "⚠️ Эта подпись уже удалена, выберите другую.")
		return
	}

	sess.Draft.Label = entry.Value
	sess.State = fsm.StateTextPrompt
	h.sessions.Save(sess)
	h.prompt(ctx, sess, chatID, messageID, "Отправьте текст поста или нажмите «Пропустить».", skipCancelKeyboard("skip_text"))
}

func (h *ChannelAdminHandler) handleEditEntryStart(ctx context.Context, sess *session.Session, chatID int64, messageID int, kind, idStr string) {
	if !h.registry.IsPrivileged(sess.UserID) {
		h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.renderCurrent(ctx, sess, chatID, messageID, "")
		return
	}

	var entry models.CatalogEntry
	var ok bool
	if kind == models.EditKindURL {
		entry, ok = h.catalog.URLByID(id)
	} else {
		entry, ok = h.catalog.LabelByID(id)
	}
	if !ok {
		if kind == models.EditKindURL {
			h.showURLManage(ctx, chatID, messageID, "⚠️ Запись уже удалена.")
		} else {
			h.showLabelManage(ctx, chatID, messageID, "⚠️ Запись уже удалена.")
		}
		return
	}

	sess.Draft.EditTarget = &models.EditTarget{Kind: kind, ID: id}
	if kind == models.EditKindURL {
		sess.State = fsm.StateEditURL
	} else {
		sess.State = fsm.StateEditLabel
	}
	h.sessions.Save(sess)
	h.prompt(ctx, sess, chatID, messageID, fmt.Sprintf("Текущее значение:\n%s\n\nОтправьте новое значение.", entry.Value), cancelKeyboard())
}

func (h *ChannelAdminHandler) handleDeleteEntry(ctx context.Context, sess *session.Session, chatID int64, messageID int, kind, idStr string) {
	if !h.registry.IsPrivileged(sess.UserID) {
		h.denyAccess(ctx, sess, chatID, messageID, "⛔ Каталог доступен только админам.")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.renderCurrent(ctx, sess, chatID, messageID, "")
		return
	}

	notice := "✅ Запись удалена."
	var delErr error
	if kind == models.EditKindURL {
		delErr = h.catalog.DeleteURL(id)
	} else {
		delErr = h.catalog.DeleteLabel(id)
	}
	if errors.Is(delErr, models.ErrNotFound) {
		notice = "⚠️ Запись уже удалена."
	} else if errors.Is(delErr, models.ErrPersistence) {
		log.Printf("[CHANNEL_ADMIN] Failed to persist catalog: %v", delErr)
		notice = "⚠️ Запись удалена, но сохранить изменение на диск не удалось."
	}

	if kind == models.EditKindURL {
		sess.State = fsm.StateViewURLs
		h.sessions.Save(sess)
		h.showURLManage(ctx, chatID, messageID, notice)
	} else {
		sess.State = fsm.StateViewLabels
		h.sessions.Save(sess)
		h.showLabelManage(ctx, chatID, messageID, notice)
	}
}

func (h *ChannelAdminHandler) handleRemoveAdmin(ctx context.Context, sess *session.Session, chatID int64, messageID int, idStr string) {
	if !h.registry.IsOwner(sess.UserID) {
		h.denyAccess(ctx, sess, chatID, messageID, "⛔ Управление админами доступно только владельцу.")
		return
	}
	adminID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.renderCurrent(ctx, sess, chatID, messageID, "")
		return
	}

	notice := fmt.Sprintf("✅ Админ %d удалён.", adminID)
	removeErr := h.registry.Remove(sess.UserID, adminID)
	if errors.Is(removeErr, models.ErrNotFound) {
		notice = "⚠️ Этот админ уже удалён."
	} else if errors.Is(removeErr, models.ErrPersistence) {
		log.Printf("[CHANNEL_ADMIN] Failed to persist admins: %v", removeErr)
		notice = "⚠️ Админ удалён, но сохранить изменение на диск не удалось."
	}

	sess.State = fsm.StateViewAdmins
	h.sessions.Save(sess)
	h.showAdminList(ctx, chatID, messageID, notice)
}

func (h *ChannelAdminHandler) handlePostConfirmation(ctx context.Context, sess *session.Session, chatID int64, messageID int) {
	if sess.State != fsm.StateConfirmPost {
		log.Printf("[CHANNEL_ADMIN] confirm_post in state %q, re-rendering", sess.State)
		h.renderCurrent(ctx, sess, chatID, messageID, "")
		return
	}

	err := h.publisher.Publish(ctx, &sess.Draft)
	if err != nil {
		// Draft and state stay so the user can retry with one tap.
		log.Printf("[CHANNEL_ADMIN] Failed to publish post: %v", err)
		h.sendText(ctx, chatID, fmt.Sprintf("❌ Не удалось опубликовать пост: %v\nНажмите «Подтвердить» ещё раз, чтобы повторить.", err))
		return
	}

	h.resetToMainMenu(sess.UserID)
	h.deleteMessage(ctx, chatID, messageID)
	h.sendText(ctx, chatID, "✅ Пост отправлен в канал!")
	h.showMainMenu(ctx, sess.UserID, chatID, 0, "")

	log.Printf("[CHANNEL_ADMIN] Post published by user %d", sess.UserID)
}

// ----- message actions -----

func (h *ChannelAdminHandler) handleAddAdminInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	adminID, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil || adminID <= 0 {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Нужен числовой Telegram ID. Попробуйте ещё раз.", cancelKeyboard())
		return
	}

	notice := fmt.Sprintf("✅ Админ %d добавлен.", adminID)
	addErr := h.registry.Add(msg.From.ID, adminID)
	if errors.Is(addErr, models.ErrUnauthorized) {
		h.resetToMainMenu(msg.From.ID)
		h.sendText(ctx, msg.Chat.ID, "⛔ Управление админами доступно только владельцу.")
		h.showMainMenu(ctx, msg.From.ID, msg.Chat.ID, 0, "")
		return
	}
	if errors.Is(addErr, models.ErrPersistence) {
		log.Printf("[CHANNEL_ADMIN] Failed to persist admins: %v", addErr)
		notice = fmt.Sprintf("⚠️ Админ %d добавлен, но сохранить изменение на диск не удалось.", adminID)
	}

	sess.State = fsm.StateAdminMenu
	h.sessions.Save(sess)
	h.showAdminMenu(ctx, msg.Chat.ID, 0, notice)

	log.Printf("[CHANNEL_ADMIN] Admin %d added by user %d", adminID, msg.From.ID)
}

func (h *ChannelAdminHandler) handleAddURLInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	if msg.Text == "" {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Отправьте URL текстом.", cancelKeyboard())
		return
	}

	entry, err := h.catalog.AddURL(msg.Text)
	if err != nil {
		log.Printf("[CHANNEL_ADMIN] Failed to persist catalog: %v", err)
		h.sendText(ctx, msg.Chat.ID, "⚠️ URL добавлен, но сохранить изменение на диск не удалось.")
	}

	if sess.Draft.Flow == models.FlowCompose {
		sess.Draft.URL = entry.Value
		sess.State = fsm.StateLabelSelection
		h.sessions.Save(sess)
		h.showLabelPick(ctx, msg.Chat.ID, 0, "")
		return
	}

	sess.State = fsm.StateCatalogMenu
	h.sessions.Save(sess)
	h.showCatalogMenu(ctx, msg.Chat.ID, 0, "✅ URL добавлен.")
}

func (h *ChannelAdminHandler) handleAddLabelInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	if msg.Text == "" {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Отправьте подпись текстом.", cancelKeyboard())
		return
	}

	entry, err := h.catalog.AddLabel(msg.Text)
	if err != nil {
		log.Printf("[CHANNEL_ADMIN] Failed to persist catalog: %v", err)
		h.sendText(ctx, msg.Chat.ID, "⚠️ Подпись добавлена, но сохранить изменение на диск не удалось.")
	}

	if sess.Draft.Flow == models.FlowCompose {
		sess.Draft.Label = entry.Value
		sess.State = fsm.StateTextPrompt
		h.sessions.Save(sess)
		h.promptSend(ctx, sess, msg.Chat.ID, "Отправьте текст поста или нажмите «Пропустить».", skipCancelKeyboard("skip_text"))
		return
	}

	sess.State = fsm.StateCatalogMenu
	h.sessions.Save(sess)
	h.showCatalogMenu(ctx, msg.Chat.ID, 0, "✅ Подпись добавлена.")
}

func (h *ChannelAdminHandler) handleEditURLInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	target := sess.Draft.EditTarget
	if target == nil || msg.Text == "" {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Отправьте новое значение текстом.", cancelKeyboard())
		return
	}

	notice := "✅ URL обновлён."
	err := h.catalog.ReplaceURL(target.ID, msg.Text)
	if errors.Is(err, models.ErrNotFound) {
		notice = "⚠️ Запись уже удалена."
	} else if errors.Is(err, models.ErrPersistence) {
		log.Printf("[CHANNEL_ADMIN] Failed to persist catalog: %v", err)
		notice = "⚠️ URL обновлён, но сохранить изменение на диск не удалось."
	}

	sess.Draft.EditTarget = nil
	sess.State = fsm.StateViewURLs
	h.sessions.Save(sess)
	h.showURLManage(ctx, msg.Chat.ID, 0, notice)
}

func (h *ChannelAdminHandler) handleEditLabelInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	target := sess.Draft.EditTarget
	if target == nil || msg.Text == "" {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Отправьте новое значение текстом.", cancelKeyboard())
		return
	}

	notice := "✅ Подпись обновлена."
	err := h.catalog.ReplaceLabel(target.ID, msg.Text)
	if errors.Is(err, models.ErrNotFound) {
		notice = "⚠️ Запись уже удалена."
	} else if errors.Is(err, models.ErrPersistence) {
		log.Printf("[CHANNEL_ADMIN] Failed to persist catalog: %v", err)
		notice = "⚠️ Подпись обновлена, но сохранить изменение на диск не удалось."
	}

	sess.Draft.EditTarget = nil
	sess.State = fsm.StateViewLabels
	h.sessions.Save(sess)
	h.showLabelManage(ctx, msg.Chat.ID, 0, notice)
}

func (h *ChannelAdminHandler) handlePostTextInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	if msg.Text == "" {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Отправьте текст поста или нажмите «Пропустить».", skipCancelKeyboard("skip_text"))
		return
	}

	sess.Draft.Text = msg.Text
	sess.State = fsm.StateImagePrompt
	h.sessions.Save(sess)
	h.promptSend(ctx, sess, msg.Chat.ID, "Отправьте изображение для поста или нажмите «Пропустить».", skipCancelKeyboard("skip_image"))
}

func (h *ChannelAdminHandler) handlePostImageInput(ctx context.Context, msg *tgmodels.Message, sess *session.Session) {
	h.deletePrompt(ctx, sess, msg.Chat.ID)

	if len(msg.Photo) == 0 {
		h.promptSend(ctx, sess, msg.Chat.ID, "❌ Отправьте изображение или нажмите «Пропустить».", skipCancelKeyboard("skip_image"))
		return
	}

	sess.Draft.PhotoID = msg.Photo[len(msg.Photo)-1].FileID
	sess.State = fsm.StateConfirmPost
	h.sessions.Save(sess)
	h.showConfirm(ctx, sess, msg.Chat.ID)
}

// ----- rendering -----

func (h *ChannelAdminHandler) resetToMainMenu(userID int64) {
	h.sessions.Clear(userID)
	h.sessions.Save(&session.Session{UserID: userID, State: fsm.StateMainMenu})
}

func (h *ChannelAdminHandler) showMainMenu(ctx context.Context, userID, chatID int64, messageID int, notice string) {
	h.editOrSend(ctx, chatID, messageID, withNotice(notice, "Добро пожаловать! Выберите действие:"), mainMenuKeyboard(h.registry.IsOwner(userID)))
}

func (h *ChannelAdminHandler) showAdminMenu(ctx context.Context, chatID int64, messageID int, notice string) {
	text := "Управление админами"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, adminMenuKeyboard())
}

func (h *ChannelAdminHandler) showAdminList(ctx context.Context, chatID int64, messageID int, notice string) {
	admins := h.registry.Admins()
	text := "Админы (нажмите, чтобы удалить):"
	if len(admins) == 0 {
		text = "Пока нет ни одного админа."
	}
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, adminListKeyboard(admins))
}

func (h *ChannelAdminHandler) showCatalogMenu(ctx context.Context, chatID int64, messageID int, notice string) {
	text := "Каталог ссылок и подписей"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, catalogMenuKeyboard())
}

func (h *ChannelAdminHandler) showURLManage(ctx context.Context, chatID int64, messageID int, notice string) {
	urls := h.catalog.URLs()
	text := "Сохранённые URL:"
	if len(urls) == 0 {
		text = "Каталог URL пуст."
	}
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, manageKeyboard(urls, models.EditKindURL))
}

func (h *ChannelAdminHandler) showLabelManage(ctx context.Context, chatID int64, messageID int, notice string) {
	labels := h.catalog.Labels()
	text := "Сохранённые подписи:"
	if len(labels) == 0 {
		text = "Каталог подписей пуст."
	}
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, manageKeyboard(labels, models.EditKindLabel))
}

func (h *ChannelAdminHandler) showURLPick(ctx context.Context, chatID int64, messageID int, notice string) {
	text := "Выберите URL для поста:"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, pickKeyboard(h.catalog.URLs(), "url", "new_url"))
}

func (h *ChannelAdminHandler) showLabelPick(ctx context.Context, chatID int64, messageID int, notice string) {
	text := "Выберите подпись кнопки:"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	h.editOrSend(ctx, chatID, messageID, text, pickKeyboard(h.catalog.Labels(), "label", "new_label"))
}

func (h *ChannelAdminHandler) showConfirm(ctx context.Context, sess *session.Session, chatID int64) {
	previewText := "Предпросмотр поста:"
	if sess.Draft.Text != "" {
		previewText = previewText + "\n\n" + sess.Draft.Text
	}
	keyboard := confirmKeyboard(&sess.Draft)

	var sentMsg *tgmodels.Message
	var err error
	if sess.Draft.PhotoID != "" {
		sentMsg, err = h.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &tgmodels.InputFileString{Data: sess.Draft.PhotoID},
			Caption:     previewText,
			ReplyMarkup: keyboard,
		})
	} else {
		sentMsg, err = h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        previewText,
			ReplyMarkup: keyboard,
		})
	}

	if err != nil {
		log.Printf("[CHANNEL_ADMIN] Failed to send preview: %v", err)
	} else if sentMsg != nil {
		sess.LastBotMessageID = sentMsg.ID
		h.sessions.Save(sess)
	}
}

// renderCurrent re-renders the prompt for the session's state, with an
// optional notice line on top. Used when an event does not fit the state
// or fails its guard, so nothing changes and nothing crashes.
func (h *ChannelAdminHandler) renderCurrent(ctx context.Context, sess *session.Session, chatID int64, messageID int, notice string) {
	switch sess.State {
	case fsm.StateAdminMenu:
		h.showAdminMenu(ctx, chatID, messageID, notice)
	case fsm.StateViewAdmins:
		h.showAdminList(ctx, chatID, messageID, notice)
	case fsm.StateCatalogMenu:
		h.showCatalogMenu(ctx, chatID, messageID, notice)
	case fsm.StateViewURLs:
		h.showURLManage(ctx, chatID, messageID, notice)
	case fsm.StateViewLabels:
		h.showLabelManage(ctx, chatID, messageID, notice)
	case fsm.StateURLSelection:
		h.showURLPick(ctx, chatID, messageID, notice)
	case fsm.StateLabelSelection:
		h.showLabelPick(ctx, chatID, messageID, notice)
	case fsm.StateAddAdmin:
		h.prompt(ctx, sess, chatID, messageID, withNotice(notice, "Отправьте числовой Telegram ID нового админа."), cancelKeyboard())
	case fsm.StateAddURL:
		h.prompt(ctx, sess, chatID, messageID, withNotice(notice, "Отправьте URL."), cancelKeyboard())
	case fsm.StateAddLabel:
		h.prompt(ctx, sess, chatID, messageID, withNotice(notice, "Отправьте текст подписи для кнопки."), cancelKeyboard())
	case fsm.StateEditURL, fsm.StateEditLabel:
		h.prompt(ctx, sess, chatID, messageID, withNotice(notice, "Отправьте новое значение текстом."), cancelKeyboard())
	case fsm.StateTextPrompt:
		h.prompt(ctx, sess, chatID, messageID, withNotice(notice, "Отправьте текст поста или нажмите «Пропустить»."), skipCancelKeyboard("skip_text"))
	case fsm.StateImagePrompt:
		h.prompt(ctx, sess, chatID, messageID, withNotice(notice, "Отправьте изображение для поста или нажмите «Пропустить»."), skipCancelKeyboard("skip_image"))
	case fsm.StateConfirmPost:
		if notice != "" {
			h.sendText(ctx, chatID, notice)
		}
		h.deleteMessage(ctx, chatID, messageID)
		h.showConfirm(ctx, sess, chatID)
	default:
		h.showMainMenu(ctx, sess.UserID, chatID, messageID, notice)
	}
}

// denyAccess surfaces a guard failure without leaving the current state.
func (h *ChannelAdminHandler) denyAccess(ctx context.Context, sess *session.Session, chatID int64, messageID int, notice string) {
	h.renderCurrent(ctx, sess, chatID, messageID, notice)
	log.Printf("[CHANNEL_ADMIN] Access denied for user %d", sess.UserID)
}

func withNotice(notice, text string) string {
	if notice == "" {
		return text
	}
	return notice + "\n\n" + text
}

// prompt replaces the pressed menu with a free-text prompt and remembers
// its message id for later cleanup.
func (h *ChannelAdminHandler) prompt(ctx context.Context, sess *session.Session, chatID int64, messageID int, text string, keyboard tgmodels.ReplyMarkup) {
	sentMsg := h.editOrSend(ctx, chatID, messageID, text, keyboard)
	if sentMsg != nil {
		sess.LastBotMessageID = sentMsg.ID
		h.sessions.Save(sess)
	}
}

func (h *ChannelAdminHandler) promptSend(ctx context.Context, sess *session.Session, chatID int64, text string, keyboard tgmodels.ReplyMarkup) {
	h.prompt(ctx, sess, chatID, 0, text, keyboard)
}

func (h *ChannelAdminHandler) deletePrompt(ctx context.Context, sess *session.Session, chatID int64) {
	if sess.LastBotMessageID <= 0 {
		return
	}
	h.deleteMessage(ctx, chatID, sess.LastBotMessageID)
	sess.LastBotMessageID = 0
	h.sessions.Save(sess)
}

func (h *ChannelAdminHandler) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if messageID <= 0 {
		return
	}
	_, err := h.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		log.Printf("[CHANNEL_ADMIN] Failed to delete message: %v", err)
	}
}

func (h *ChannelAdminHandler) sendText(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.Printf("[CHANNEL_ADMIN] Failed to send message: %v", err)
	}
}

func (h *ChannelAdminHandler) editOrSend(ctx context.Context, chatID int64, messageID int, text string, keyboard tgmodels.ReplyMarkup) *tgmodels.Message {
	if messageID > 0 {
		sentMsg, err := h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
		if err == nil {
			return sentMsg
		}
		log.Printf("[CHANNEL_ADMIN] Failed to edit message: %v", err)
	}

	sentMsg, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.Printf("[CHANNEL_ADMIN] Failed to send message: %v", err)
		return nil
	}
	return sentMsg
}
