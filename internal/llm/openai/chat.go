package openai

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rachel-analytics/invoice-insight/internal/common"
	"github.com/rachel-analytics/invoice-insight/internal/llm"
)

// Complete implements llm.ChatCompleter: one system + one user message,
// plain text reply. Used by the forecast chat service.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.chat.start",
		"req_id", rid,
		"model", c.cfg.ChatModel,
		"user_len", len(user),
	)

	body := map[string]any{
		"model":       c.cfg.ChatModel,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	if c.cfg.MaxTokens > 0 {
		body["max_tokens"] = c.cfg.MaxTokens
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, _, httpErr := llm.SendJSON(ctx, c.http, endpoint, body, c.authHeaders(), c.log)
	if httpErr != nil {
		c.log.Error("llm.chat.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.UpstreamError("chat completion call failed", httpErr)
	}

	content, err := chatContent(raw)
	if err != nil {
		c.log.Error("llm.chat.decode_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.UpstreamError("decode chat response", err)
	}

	c.log.Info("llm.chat.ok",
		"req_id", rid,
		"reply_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
