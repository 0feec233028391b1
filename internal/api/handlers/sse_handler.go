package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/domain/providers"
)

// SSEHandler streams diagnosis events to clients over Server-Sent Events
type SSEHandler struct {
	eventBus providers.EventBus
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

// StreamDiagnoses handles SSE connections for the live diagnosis feed
// GET /api/diagnoses/stream
func (h *SSEHandler) StreamDiagnoses(w http.ResponseWriter, r *http.Request) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "event stream not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan, err := h.eventBus.Subscribe(r.Context(), services.DiagnosisEventsChannel)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to subscribe to diagnosis events")
		respondWithError(w, http.StatusServiceUnavailable, "failed to subscribe to events")
		return
	}

	h.sendEvent(w, "connected", map[string]interface{}{
		"timestamp": time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Msg("Client disconnected from diagnosis stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// sendEvent writes one SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
