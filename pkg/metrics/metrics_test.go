package metrics_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/metrics"
)

func TestMetrics_HooksFeedCollectors(t *testing.T) {
	m := metrics.New()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.EmitTurnStart(ctx, &domain.TurnEvent{ActivityType: domain.ActivityMessage, ChannelID: "console"})
	hooks.EmitTurnStart(ctx, &domain.TurnEvent{ActivityType: domain.ActivityMessage, ChannelID: "console"})
	hooks.EmitDialogBegin(ctx, &domain.DialogEvent{DialogID: "mainMenu", Depth: 1})
	hooks.EmitDialogEnd(ctx, &domain.DialogEvent{DialogID: "mainMenu"})
	hooks.EmitStep(ctx, &domain.DialogEvent{DialogID: "mainMenu"})
	hooks.EmitPromptRetry(ctx, &domain.DialogEvent{DialogID: "sizePrompt"})

	expected := `
		# HELP botplayground_turns_total Turns processed, by activity type and channel.
		# TYPE botplayground_turns_total counter
		botplayground_turns_total{activity_type="message",channel="console"} 2
	`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "botplayground_turns_total"))

	expected = `
		# HELP botplayground_prompt_retries_total Prompt inputs rejected and re-asked, by dialog id.
		# TYPE botplayground_prompt_retries_total counter
		botplayground_prompt_retries_total{dialog_id="sizePrompt"} 1
	`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "botplayground_prompt_retries_total"))
}

func TestMetrics_HandlerServesExposition(t *testing.T) {
	m := metrics.New()
	m.Hooks().EmitDialogBegin(context.Background(), &domain.DialogEvent{DialogID: "greeting", Depth: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `botplayground_dialogs_begun_total{dialog_id="greeting"} 1`)
}
