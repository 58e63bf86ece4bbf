package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachel-analytics/invoice-insight/internal/llm"
)

type stubChat struct {
	system string
	user   string
	reply  string
	err    error
	calls  int
}

func (s *stubChat) Complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.reply, s.err
}

func TestChatForwardsContextAndQuestion(t *testing.T) {
	stub := &stubChat{reply: "Revenue peaks in 2025."}
	svc := NewService(stub, nil)

	table := RevenueTable{GrossLotSalesRevenue: map[string]*float64{"2024": fp(1000), "2025": fp(2000)}}
	reply, err := svc.Chat(context.Background(), "Which year peaks?", table)
	require.NoError(t, err)

	assert.Equal(t, "Revenue peaks in 2025.", reply)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, llm.ChatSystemPrompt, stub.system)
	assert.Contains(t, stub.user, "Question: Which year peaks?")
	assert.Contains(t, stub.user, "- Total Gross Lot Sales Revenue: $3,000.00")
}

func TestChatPropagatesUpstreamError(t *testing.T) {
	stub := &stubChat{err: errors.New("rate limited")}
	svc := NewService(stub, nil)

	_, err := svc.Chat(context.Background(), "hi", RevenueTable{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "rate limited")
}
