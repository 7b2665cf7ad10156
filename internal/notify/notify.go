// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers short spoken messages to the local voice server.
// Delivery is best effort: Notify never reports failure to its caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultPort is the voice server port when none is configured.
const DefaultPort = "3000"

// DefaultTimeout bounds one delivery attempt.
const DefaultTimeout = 2 * time.Second

// speechRate is the words-per-minute rate requested from the voice server.
const speechRate = 280

// Message is the JSON body accepted by the voice server.
type Message struct {
	Message      string `json:"message"`
	Rate         int    `json:"rate"`
	VoiceEnabled bool   `json:"voice_enabled"`
}

// Dispatcher posts messages to one endpoint.
type Dispatcher struct {
	Client *http.Client
	URL    string
	Logger *zap.Logger
}

// URLForPort returns the notify endpoint on localhost for port.
func URLForPort(port string) string {
	if port == "" {
		port = DefaultPort
	}
	return fmt.Sprintf("http://localhost:%s/notify", port)
}

// New returns a Dispatcher for the voice server on localhost:port.
func New(port string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Client: &http.Client{Timeout: DefaultTimeout},
		URL:    URLForPort(port),
		Logger: logger,
	}
}

// Send makes one POST attempt and returns any failure, including a non-2xx
// status. It does not retry.
func (d *Dispatcher) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(Message{Message: text, Rate: speechRate, VoiceEnabled: true})
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("voice server returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Notify sends text and discards any failure after logging it at debug level.
func (d *Dispatcher) Notify(ctx context.Context, text string) {
	if err := d.Send(ctx, text); err != nil {
		d.logger().Debug("notification not delivered", zap.String("url", d.URL), zap.Error(err))
	}
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
