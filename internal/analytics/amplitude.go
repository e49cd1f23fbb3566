// Package analytics reports behavioral events to Amplitude. Emission
// is fire-and-forget: every failure is logged here and contained here.
package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/sourcegraph/conc"

	"github.com/okadapy/persona-bot/config"
	"github.com/okadapy/persona-bot/internal/model"
)

type event struct {
	UserID    int64  `json:"user_id"`
	EventType string `json:"event_type"`
}

type payload struct {
	APIKey string  `json:"api_key"`
	Events []event `json:"events"`
}

type Emitter struct {
	cfg    config.Amplitude
	client *http.Client
	wg     *conc.WaitGroup
}

func NewEmitter(cfg config.Amplitude) *Emitter {
	return &Emitter{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.EmitTimeout,
		},
		wg: conc.NewWaitGroup(),
	}
}

// Emit submits one event in the background and returns immediately.
func (e *Emitter) Emit(userID int64, eventType model.EventType) {
	if e.cfg.APIKey == "" {
		return
	}
	e.wg.Go(
		func() {
			if err := e.send(userID, eventType); err != nil {
				log.Printf("failed to emit %q for user %d: %v\n", eventType, userID, err)
			}
		},
	)
}

// Close waits for in-flight emissions to drain.
func (e *Emitter) Close() {
	e.wg.Wait()
}

func (e *Emitter) send(userID int64, eventType model.EventType) error {
	body, err := json.Marshal(
		payload{
			APIKey: e.cfg.APIKey,
			Events: []event{
				{
					UserID:    userID,
					EventType: string(eventType),
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	resp, err := e.client.Post(e.cfg.Endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
