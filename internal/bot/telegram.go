package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"sats-market/internal/convert"
	"sats-market/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// PriceReader is the resolver slice the bot consumes.
type PriceReader interface {
	ResolveBtcSpot(ctx context.Context) (*domain.SpotPrice, error)
	ResolveQuote(ctx context.Context, ticker string) (*domain.Quote, error)
}

// StartTelegramBot starts a long-polling bot when TELEGRAM_BOT_TOKEN is set.
func StartTelegramBot(resolver PriceReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/btc", func(c tele.Context) error {
		spot, err := resolver.ResolveBtcSpot(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching BTC price: %v", err))
		}
		return c.Send(fmt.Sprintf("BTC: $%.2f", spot.PriceUSD))
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /price AAPL")
		}
		ticker := strings.ToUpper(args[0])

		quote, err := resolver.ResolveQuote(context.Background(), ticker)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching price for %s: %v", ticker, err))
		}
		spot, err := resolver.ResolveBtcSpot(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching BTC rate: %v", err))
		}

		sats := convert.ToSats(quote.CurrentPrice, spot.PriceUSD)
		msg := fmt.Sprintf(
			"%s\nPrice: $%.2f\nSats: %s\nChange: %.2f%%",
			ticker, quote.CurrentPrice, convert.FormatSats(sats), quote.ChangePercent,
		)
		return c.Send(msg)
	})

	log.Println("Telegram bot started")
	go b.Start()
}
