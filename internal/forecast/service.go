package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rachel-analytics/invoice-insight/internal/llm"
)

// Service answers questions about a submitted revenue table. Stateless: the
// table arrives fresh on every call and nothing is kept across requests.
type Service struct {
	chat llm.ChatCompleter
	log  *slog.Logger
}

func NewService(chat llm.ChatCompleter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{chat: chat, log: logger}
}

// Chat builds the narrative context from the table and forwards it with the
// caller's question. The model's reply text is returned verbatim.
func (s *Service) Chat(ctx context.Context, message string, table RevenueTable) (string, error) {
	start := time.Now()

	contextBlock := BuildContext(table)
	user := fmt.Sprintf("Here is the context of our revenue forecast data:\n\n%s\n\nQuestion: %s", contextBlock, message)

	reply, err := s.chat.Complete(ctx, llm.ChatSystemPrompt, user)
	if err != nil {
		return "", err
	}

	s.log.Info("forecast.chat.ok",
		"question_len", len(message),
		"context_len", len(contextBlock),
		"reply_len", len(reply),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}
