// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hook runs event hooks invoked by the host assistant process.
//
// A hook reads one JSON event from stdin, classifies it, and when it matches
// writes a notification log, updates indexes, and sends a voice notification.
// Run is the only boundary: it never returns an error and never panics, so a
// failing hook cannot block its host. Handlers below it use ordinary error
// returns.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/classify"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Notifier delivers a best-effort message.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Env carries the collaborators a handler needs.
type Env struct {
	Store    *store.Store
	Notifier Notifier
	Out      io.Writer
	Logger   *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e Env) out() io.Writer {
	if e.Out == nil {
		return io.Discard
	}
	return e.Out
}

func (e Env) notify(ctx context.Context, msg string) {
	if e.Notifier != nil {
		e.Notifier.Notify(ctx, msg)
	}
}

// Handler handles events of one category.
type Handler struct {
	Name       string
	Classifier classify.Classifier
	Handle     func(ctx context.Context, env Env, p types.EventPayload) error
}

// Outcome reports what Run did.
type Outcome string

const (
	// Skipped means the input was empty or did not match the classifier.
	Skipped Outcome = "skipped"
	Handled Outcome = "handled"
	Failed  Outcome = "failed"
)

// Run reads one event from in and dispatches it to h. Empty input and
// non-matching events are skipped without side effects. Every failure,
// including a panic, is logged and reported as Failed.
func Run(ctx context.Context, in io.Reader, env Env, h Handler) (outcome Outcome) {
	log := env.logger().With(zap.String("hook", h.Name))
	defer func() {
		if r := recover(); r != nil {
			log.Error("hook panicked", zap.Any("panic", r))
			outcome = Failed
		}
	}()

	p, ok, err := readPayload(in)
	if err != nil {
		log.Error("hook failed", zap.Error(err))
		return Failed
	}
	if !ok || !h.Classifier.Match(p) {
		log.Debug("event skipped")
		return Skipped
	}

	if err := h.Handle(ctx, env, p); err != nil {
		log.Error("hook failed", zap.Error(err))
		return Failed
	}
	return Handled
}

// readPayload reads the whole of in. It reports false when the input is
// blank or carries no payload.
func readPayload(in io.Reader) (types.EventPayload, bool, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return types.EventPayload{}, false, fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return types.EventPayload{}, false, nil
	}
	var ev types.HookEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return types.EventPayload{}, false, fmt.Errorf("parsing event: %w", err)
	}
	if ev.Payload == nil {
		return types.EventPayload{}, false, nil
	}
	return *ev.Payload, true, nil
}

const rule = "==================================================="

// banner writes a framed block of lines to w.
func banner(w io.Writer, title string, lines []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
