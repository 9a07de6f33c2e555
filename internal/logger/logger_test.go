package logger

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingClient struct {
	mu       sync.Mutex
	messages []string
	sent     chan struct{}
}

func (c *recordingClient) SendMessage(chatID int64, text string) error {
	c.mu.Lock()
	c.messages = append(c.messages, text)
	c.mu.Unlock()
	c.sent <- struct{}{}
	return nil
}

func TestLogWithErrWrapsError(t *testing.T) {
	if err := LogWithErr("saved song", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cause := errors.New("connection reset")
	err := LogWithErr("saving song 42", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "saving song 42") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestInitSendsToChannel(t *testing.T) {
	t.Setenv("LOG_CHANNEL_ID", "-100123")
	client := &recordingClient{sent: make(chan struct{}, 1)}
	if err := Init(client); err != nil {
		t.Fatal(err)
	}
	if ChannelID != -100123 {
		t.Fatalf("unexpected channel: %d", ChannelID)
	}

	Success("song saved")

	select {
	case <-client.sent:
	case <-time.After(time.Second):
		t.Fatalf("log line was not sent")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if len(client.messages) != 1 || !strings.Contains(client.messages[0], "✅ SUCCESS\nsong saved") {
		t.Fatalf("unexpected messages: %q", client.messages)
	}
}
