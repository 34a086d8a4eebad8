package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"

	"github.com/ad/go-telegram-poster/internal/config"
	"github.com/ad/go-telegram-poster/internal/db"
	"github.com/ad/go-telegram-poster/internal/handlers"
	"github.com/ad/go-telegram-poster/internal/services"
	"github.com/ad/go-telegram-poster/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.InitSchema(sqlDB); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	adminRepo := db.NewAdminRepository(dbQueue)
	catalogRepo := db.NewCatalogRepository(dbQueue)

	registry, err := services.NewAdminRegistry(cfg.OwnerID, adminRepo)
	if err != nil {
		log.Fatalf("Failed to load admin registry: %v", err)
	}
	catalog, err := services.NewCatalog(catalogRepo)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	var b *bot.Bot
	var botUser *tgmodels.User
	const maxAttempts = 5
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			delay := time.Duration(i*3) * time.Second
			log.Printf("Retrying in %v...", delay)
			select {
			case <-ctx.Done():
				log.Fatal("Interrupted during startup")
			case <-time.After(delay):
			}
		}
		log.Printf("Connecting to Telegram API (attempt %d/%d)...", i+1, maxAttempts)
		b, err = bot.New(cfg.BotToken, bot.WithHTTPClient(15*time.Second, httpClient))
		if err != nil {
			log.Printf("Failed to create bot: %v", err)
			continue
		}
		getMeCtx, getMeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		botUser, err = b.GetMe(getMeCtx)
		getMeCancel()
		if err == nil {
			break
		}
		log.Printf("Failed to get bot info: %v", err)
	}
	if err != nil {
		log.Fatalf("Failed to connect to Telegram API after %d attempts", maxAttempts)
	}

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.StartJanitor(ctx, 5*time.Minute)

	publisher := services.NewPublisher(b, cfg.ChannelID)

	channelAdminHandler := handlers.NewChannelAdminHandler(
		b,
		registry,
		catalog,
		publisher,
		sessions,
	)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil {
			if channelAdminHandler.HandleCommand(ctx, update.Message) {
				return
			}
			channelAdminHandler.HandleMessage(ctx, update.Message)
		}
		if update.CallbackQuery != nil {
			channelAdminHandler.HandleCallback(ctx, update.CallbackQuery)
		}
	}, logMiddleware)

	log.Printf("Bot started. DB: %s, channel: %d", cfg.DBPath, cfg.ChannelID)
	if botUser != nil {
		log.Printf("Bot: @%s — https://t.me/%s", botUser.Username, botUser.Username)
	}

	b.Start(ctx)
}

func logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil {
			log.Printf("[MSG] from=%d text=%q", update.Message.From.ID, update.Message.Text)
		}
		if update.CallbackQuery != nil {
			log.Printf("[CALLBACK] from=%d data=%q", update.CallbackQuery.From.ID, update.CallbackQuery.Data)
		}
		next(ctx, b, update)
	}
}
