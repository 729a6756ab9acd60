package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/tracy-ai/tracybot/internal/bot/tasks"
	"github.com/tracy-ai/tracybot/internal/config"
)

type fakeTelegram struct {
	mu            sync.Mutex
	webhook       *tgbot.SetWebhookParams
	deleteWebhook *tgbot.DeleteWebhookParams
	updates       []int64
	started       atomic.Bool
	setErr        error
	stopEarly     bool
}

func (f *fakeTelegram) ProcessUpdate(_ context.Context, upd *models.Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd.ID)
}

func (f *fakeTelegram) Start(ctx context.Context) {
	f.started.Store(true)
	if f.stopEarly {
		return
	}
	<-ctx.Done()
}

func (f *fakeTelegram) SetWebhook(_ context.Context, params *tgbot.SetWebhookParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhook = params
	return f.setErr == nil, f.setErr
}

func (f *fakeTelegram) DeleteWebhook(_ context.Context, params *tgbot.DeleteWebhookParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteWebhook = params
	return true, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testConfig(mode string, port int) *config.Config {
	return &config.Config{
		Mode: mode,
		Telegram: config.TelegramConfig{
			Token:         "123:abc",
			WebhookURL:    "https://tracy.example.com/",
			WebhookSecret: "s3cret",
		},
		Server: config.ServerConfig{
			Port:            port,
			LivenessMessage: config.DefaultLivenessMessage,
		},
	}
}

func runAsync(ctx context.Context, b *Bot) <-chan error {
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
		return nil
	}
}

func TestWebhookURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{base: "https://tracy.example.com", want: "https://tracy.example.com/123:abc"},
		{base: "https://tracy.example.com/", want: "https://tracy.example.com/123:abc"},
	}
	for _, tt := range tests {
		if got := WebhookURL(tt.base, "123:abc"); got != tt.want {
			t.Errorf("WebhookURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestRun_WebhookMode(t *testing.T) {
	t.Parallel()

	port := freePort(t)
	tg := &fakeTelegram{}
	cfg := testConfig(config.ModeWebhook, port)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, NewBot(discard(), cfg, tg, nil))

	base := "http://127.0.0.1:" + strconv.Itoa(port)
	var resp *http.Response
	waitFor(t, "webhook server", func() bool {
		req, _ := http.NewRequest(http.MethodPost, base+"/123:abc", strings.NewReader(`{"update_id": 9}`))
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")
		var err error
		resp, err = http.DefaultClient.Do(req)
		return err == nil
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("webhook status = %d, want 200", resp.StatusCode)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tg.mu.Lock()
	defer tg.mu.Unlock()
	if tg.webhook == nil || tg.webhook.URL != "https://tracy.example.com/123:abc" || tg.webhook.SecretToken != "s3cret" {
		t.Errorf("SetWebhook params = %+v", tg.webhook)
	}
	if len(tg.updates) != 1 || tg.updates[0] != 9 {
		t.Errorf("processed updates = %v, want [9]", tg.updates)
	}
	if tg.started.Load() {
		t.Error("webhook mode must not start polling")
	}
}

func TestRun_WebhookRegistrationFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	port := freePort(t)
	tg := &fakeTelegram{setErr: errors.New("telegram unreachable")}

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, NewBot(discard(), testConfig(config.ModeWebhook, port), tg, nil))

	waitFor(t, "liveness", func() bool {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_PollingMode(t *testing.T) {
	t.Parallel()

	port := freePort(t)
	tg := &fakeTelegram{}
	cfg := testConfig(config.ModePolling, port)
	cfg.Server.LivenessEnabled = true
	cfg.Telegram.DropPendingUpdates = true

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, NewBot(discard(), cfg, tg, nil))

	waitFor(t, "polling start", tg.started.Load)
	waitFor(t, "liveness", func() bool {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) == config.DefaultLivenessMessage
	})

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tg.mu.Lock()
	defer tg.mu.Unlock()
	if tg.deleteWebhook == nil || !tg.deleteWebhook.DropPendingUpdates {
		t.Errorf("DeleteWebhook params = %+v", tg.deleteWebhook)
	}
	if tg.webhook != nil {
		t.Error("polling mode must not set a webhook")
	}
}

func TestRun_PollingStopsUnexpectedly(t *testing.T) {
	t.Parallel()

	tg := &fakeTelegram{stopEarly: true}
	cfg := testConfig(config.ModePolling, 0)

	done := runAsync(context.Background(), NewBot(discard(), cfg, tg, nil))
	if err := waitDone(t, done); err == nil {
		t.Fatal("Run() should fail when polling stops on its own")
	}
}

func TestRun_UnknownMode(t *testing.T) {
	t.Parallel()

	b := NewBot(discard(), testConfig("carrier-pigeon", 0), &fakeTelegram{}, nil)
	if err := b.Run(context.Background()); err == nil {
		t.Fatal("Run() should reject an unknown mode")
	}
}

func TestRun_SchedulerRunsTasks(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	sched, err := NewScheduler(discard(), time.Hour, map[string]tasks.ScheduledTaskFunc{
		"count": func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, NewBot(discard(), testConfig(config.ModePolling, 0), &fakeTelegram{}, sched))

	waitFor(t, "scheduled task", func() bool { return runs.Load() >= 1 })

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
