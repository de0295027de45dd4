// internal/infra/telegram/client.go
package telegram

import (
	"time"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the notify.Client interface using the
// gopkg.in/telebot.v3 library. It backs the optional admin alert channel:
// instruction agents get a message when an impactful status change or a
// dotation change is committed.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(token string) (*TelebotAdapter, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &TelebotAdapter{bot: bot}, nil
}

// Send delivers a text alert to the given chat.
func (tba *TelebotAdapter) Send(recipientChatID int64, text string) error {
	recipient := &telebot.User{ID: recipientChatID}
	_, err := tba.bot.Send(recipient, text)
	return err
}
