// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewbot/internal/analysis"
	"reviewbot/internal/common/config"
	"reviewbot/internal/common/logger"
	"reviewbot/internal/common/observability"
	"reviewbot/internal/conversation"
	"reviewbot/internal/dispatch"
	"reviewbot/internal/transport"
)

// The full message path wired with in-process stand-ins: miniredis for
// the cache, an httptest server for the chat gateway, and a shell
// script for the analysis tool.

type capturedReply struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type replyRecorder struct {
	mu      sync.Mutex
	replies []capturedReply
}

func (r *replyRecorder) add(reply capturedReply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply)
}

func (r *replyRecorder) forUser(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, reply := range r.replies {
		if reply.To == userID {
			out = append(out, reply.Body)
		}
	}
	return out
}

type testStack struct {
	webhook    *httptest.Server
	recorder   *replyRecorder
	dispatcher *dispatch.Dispatcher
}

func (s *testStack) sendMessage(t *testing.T, from, body string) {
	t.Helper()
	payload, err := json.Marshal(transport.Message{From: from, Body: body})
	require.NoError(t, err)

	resp, err := http.Post(s.webhook.URL+"/webhook", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func (s *testStack) waitForReplies(t *testing.T, userID string, count int) []string {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(s.recorder.forUser(userID)) >= count
	}, 10*time.Second, 20*time.Millisecond, "expected %d replies for %s", count, userID)
	return s.recorder.forUser(userID)
}

func setupStack(t *testing.T, artifactsDir string) *testStack {
	t.Helper()
	log := logger.NewTestLogger(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	recorder := &replyRecorder{}
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reply capturedReply
		if err := json.NewDecoder(r.Body).Decode(&reply); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		recorder.add(reply)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gatewayServer.Close)

	// Analysis tool stub: succeeds, relying on pre-seeded artifacts.
	stub := filepath.Join(t.TempDir(), "analyze.sh")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	store, err := analysis.NewArtifactStore(artifactsDir, log)
	require.NoError(t, err)
	cache := analysis.NewCache(rdb, store, 30*time.Minute, log)
	gateway := analysis.NewGateway(&analysis.GatewayConfig{
		Command: stub,
		Timeout: 10 * time.Second,
	}, cache, log)

	sender := transport.NewGatewayClient(config.TransportConfig{
		GatewayBaseURL: gatewayServer.URL,
		Timeout:        2000,
		MaxRetries:     2,
	}, log)

	sessions := conversation.NewSessionStore()
	engine := conversation.NewEngine(sessions, gateway, sender, log)
	dispatcher := dispatch.NewDispatcher(engine, sender, 16, &observability.Observability{}, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = dispatcher.Shutdown(ctx)
	})

	webhook := httptest.NewServer(transport.NewRouter(transport.NewWebhookHandler(dispatcher, log), pingOK{}))
	t.Cleanup(webhook.Close)

	return &testStack{webhook: webhook, recorder: recorder, dispatcher: dispatcher}
}

type pingOK struct{}

func (pingOK) Ping(ctx context.Context) error { return nil }

func seedArtifact(t *testing.T, dir, productID string, confidence float64) {
	t.Helper()
	artifact := fmt.Sprintf(`{
		"product_id": %q,
		"product_info": {"name": "Seeded Product", "url": "https://amazon.com/dp/%s"},
		"summary": {
			"overall_sentiment": "positive",
			"confidence_score": %g,
			"review_counts": {"positive": 42, "neutral": 5, "negative": 3},
			"recommendation": "Recommended by most reviewers"
		},
		"timestamp": "2026-08-28T12:00:00.000000"
	}`, productID, productID, confidence)
	name := fmt.Sprintf("analysis_%s_20260828_120000.json", productID)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(artifact), 0o644))
}

func TestEndToEnd_GreetingAndAnalysis(t *testing.T) {
	dir := t.TempDir()
	seedArtifact(t, dir, "B00ZV9PXP2", 0.92)
	stack := setupStack(t, dir)

	const user = "alice@c.us"

	stack.sendMessage(t, user, "hi")
	replies := stack.waitForReplies(t, user, 1)
	assert.Equal(t, conversation.MsgWelcome, replies[0])

	stack.sendMessage(t, user, "B00ZV9PXP2")
	replies = stack.waitForReplies(t, user, 3)
	assert.Equal(t, conversation.MsgAnalyzing, replies[1])
	assert.Contains(t, replies[2], "*📊 Product Review Analysis*")
	assert.Contains(t, replies[2], "92.0%")
}

func TestEndToEnd_GuidedComparison(t *testing.T) {
	dir := t.TempDir()
	seedArtifact(t, dir, "B00ZV9PXP2", 0.90)
	seedArtifact(t, dir, "B00ZV9PXP3", 0.70)
	stack := setupStack(t, dir)

	const user = "bob@c.us"

	stack.sendMessage(t, user, "compare these for me")
	replies := stack.waitForReplies(t, user, 1)
	assert.Equal(t, conversation.MsgAskForFirstProduct, replies[0])

	stack.sendMessage(t, user, "B00ZV9PXP2")
	replies = stack.waitForReplies(t, user, 2)
	assert.Equal(t, conversation.MsgAskForSecondProduct, replies[1])

	stack.sendMessage(t, user, "B00ZV9PXP3")
	replies = stack.waitForReplies(t, user, 4)
	assert.Equal(t, conversation.MsgComparing, replies[2])
	assert.Contains(t, replies[3], "Product 1 has more favorable reviews")
}

func TestEndToEnd_UsersDoNotInterfere(t *testing.T) {
	dir := t.TempDir()
	seedArtifact(t, dir, "B00ZV9PXP2", 0.92)
	stack := setupStack(t, dir)

	// One user mid-comparison must not disturb another's analysis.
	stack.sendMessage(t, "carol@c.us", "compare these")
	stack.sendMessage(t, "dave@c.us", "B00ZV9PXP2")

	carol := stack.waitForReplies(t, "carol@c.us", 1)
	assert.Equal(t, conversation.MsgAskForFirstProduct, carol[0])

	dave := stack.waitForReplies(t, "dave@c.us", 2)
	assert.Equal(t, conversation.MsgAnalyzing, dave[0])
	assert.Contains(t, dave[1], "*📊 Product Review Analysis*")
}

func TestEndToEnd_UnknownProductReadsAsNoReviews(t *testing.T) {
	stack := setupStack(t, t.TempDir())

	const user = "erin@c.us"
	stack.sendMessage(t, user, "!analyze B00MISSING0")

	replies := stack.waitForReplies(t, user, 2)
	assert.Equal(t, conversation.MsgAnalyzing, replies[0])
	assert.Equal(t, conversation.MsgErrNoReviews, replies[1])
}
