package reminder

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineSender implements Sender over the LINE messaging API
type LineSender struct {
	bot *linebot.Client
}

// NewLineSender creates a new LineSender
func NewLineSender(bot *linebot.Client) *LineSender {
	return &LineSender{bot: bot}
}

func (s *LineSender) Push(ctx context.Context, to, text string) error {
	_, err := s.bot.PushMessage(to, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("pushing message to %s: %w", to, err)
	}
	return nil
}
