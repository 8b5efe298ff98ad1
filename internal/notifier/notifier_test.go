package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"KrakenSandbox/internal/model"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	require.NoError(t, tn.Notify(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramNotifier_SendWithRetryGivesUp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	err := tn.SendWithRetry(context.Background(), "hello", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, 1, calls)
}

func TestTelegramNotifier_SendWithRetryStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := tn.SendWithRetry(ctx, "hello", 5)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestStartPolling_HandlesOwnChatOnly(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
		polled  int
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/bottoken/getUpdates":
			polled++
			if polled == 1 {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":1,"message":{"text":"/status","chat":{"id":42}}},
					{"update_id":2,"message":{"text":"/status","chat":{"id":7}}}
				]}`))
				return
			}
			cancel()
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/bottoken/sendMessage":
			var msg map[string]string
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &msg)
			replies = append(replies, msg["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL

	var commands []string
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string {
			commands = append(commands, cmd)
			return "pong"
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	assert.Equal(t, []string{"/status"}, commands)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"pong"}, replies)
}

func TestFormatFill(t *testing.T) {
	msg := FormatFill(model.Fill{Pair: "XXBTZEUR", Side: model.SideSell, Requested: 0.02, Amount: 0.01, Price: 31000, Value: 310}, 1010, "EUR")
	assert.Contains(t, msg, "SELL")
	assert.Contains(t, msg, "requested 0.02")
	assert.Contains(t, msg, "Balance: 1010.00 EUR")
}

func TestFormatPortfolio(t *testing.T) {
	state := model.LedgerState{Balance: 700, Currency: "EUR", Holdings: map[string]float64{"XXBTZEUR": 0.01, "XETHZEUR": 1}}
	msg := FormatPortfolio(state, map[string]float64{"XXBTZEUR": 30000})
	assert.Contains(t, msg, "XETHZEUR: 1\n")
	assert.Contains(t, msg, "XXBTZEUR: 0.01 (≈ 300.00 EUR)")
	assert.Contains(t, msg, "Equity: 1000.00 EUR")
	assert.Less(t, strings.Index(msg, "XETHZEUR"), strings.Index(msg, "XXBTZEUR"), "pairs sorted")

	empty := FormatPortfolio(model.LedgerState{Balance: 1000, Currency: "EUR"}, nil)
	assert.Contains(t, empty, "Holdings: none")
}

func TestFormatStatusAndError(t *testing.T) {
	assert.Contains(t, FormatStatus(model.SystemStatus{Status: "online"}), "online")
	assert.Contains(t, FormatStatus(model.SystemStatus{}), "reachable")
	assert.Contains(t, FormatError("buy", errors.New("a <b> c")), "a &lt;b&gt; c")
}
