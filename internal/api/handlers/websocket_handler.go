package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/auth"
	ws "github.com/SydAsim/Visaguardai-Upwork/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections for the analysis progress
// stream.
type WebSocketHandler struct {
	hub    *ws.Hub
	tokens *auth.TokenManager
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, tokens *auth.TokenManager) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. Browser clients cannot set
// headers on the upgrade request, so the token arrives as a cookie or query
// parameter.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.TokenFromRequest(r)
	if tokenStr == "" {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.Validate(tokenStr)
	if err != nil {
		http.Error(w, "Invalid auth token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, claims.Email)
	h.hub.Register <- client

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleIncomingWSMessage)
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a websocket
// client. The progress stream is one-way; only a ping action is answered.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		return
	}

	switch msg.Action {
	case "ping":
		client.Send <- []byte(`{"action":"pong"}`)
	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Send <- ws.NewErrorMessage("Unknown action: " + msg.Action)
	}
}
