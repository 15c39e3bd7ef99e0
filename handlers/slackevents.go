package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"translatebot/models"
	"translatebot/usecases/translate"
)

// maxSignatureAge bounds the accepted clock skew in either direction; older
// (or future-dated) deliveries are treated as replay attempts.
const maxSignatureAge = 5 * time.Minute

type SlackEventsHandler struct {
	signingSecret    string
	translateUseCase *translate.TranslateUseCase
}

func NewSlackEventsHandler(signingSecret string, translateUseCase *translate.TranslateUseCase) *SlackEventsHandler {
	return &SlackEventsHandler{
		signingSecret:    signingSecret,
		translateUseCase: translateUseCase,
	}
}

// verifySlackSignature verifies the authenticity of a Slack webhook request
func (h *SlackEventsHandler) verifySlackSignature(r *http.Request, body []byte) error {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing required headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %v", err)
	}

	skew := time.Now().Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(maxSignatureAge.Seconds()) {
		return fmt.Errorf("request timestamp outside the accepted window")
	}

	// Signature base string: v0:timestamp:body
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Constant-time comparison
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	// Read raw body for signature verification
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.verifySlackSignature(r, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var envelope models.SlackEventEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if envelope.Type == "url_verification" {
		log.Printf("🔐 Slack URL verification challenge received")
		if envelope.Challenge == "" {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(envelope.Challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	if envelope.Type != "event_callback" || envelope.Event == nil {
		log.Printf("📋 Non-event callback received: %s", envelope.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	event := envelope.Event
	log.Printf("📞 Event callback %s: type %s, channel %s", envelope.EventID, event.Type, event.Channel)

	// Processing failures are logged and acked with 200 regardless: Slack
	// retries on non-200 responses and the dedup store already handles
	// legitimate retries.
	switch {
	case event.Type == "message" && event.Subtype == "message_changed":
		if err := h.translateUseCase.ProcessMessageChanged(r.Context(), event); err != nil {
			log.Printf("❌ Failed to handle message_changed event: %v", err)
		}
	case event.Type == "message":
		if err := h.translateUseCase.ProcessMessageEvent(r.Context(), event); err != nil {
			log.Printf("❌ Failed to handle message event: %v", err)
		}
	case event.Type == "reaction_added":
		if err := h.translateUseCase.ProcessReactionAdded(r.Context(), event); err != nil {
			log.Printf("❌ Failed to handle reaction_added event: %v", err)
		}
	default:
		log.Printf("⏭️ Unsupported event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")
}
