package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for match and
// tournament observers
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleMatchConnection subscribes a client to one live match's updates
func (h *WebSocketHandler) HandleMatchConnection(w http.ResponseWriter, r *http.Request) {
	h.handleConnection(w, r, ChannelMatch, "match_id")
}

// HandleTournamentConnection subscribes a client to one bracket's updates
func (h *WebSocketHandler) HandleTournamentConnection(w http.ResponseWriter, r *http.Request) {
	h.handleConnection(w, r, ChannelTournament, "tournament_id")
}

func (h *WebSocketHandler) handleConnection(w http.ResponseWriter, r *http.Request, kind ChannelKind, param string) {
	idStr := r.URL.Query().Get(param)
	if idStr == "" {
		http.Error(w, param+" is required", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid "+param+" format", http.StatusBadRequest)
		return
	}

	// In production this would come from a JWT or session
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	channel := Channel{Kind: kind, ID: id.String()}
	if err := h.connectionManager.UpgradeConnection(w, r, userID, channel); err != nil {
		log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Str("user_id", userID).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	stats := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Error().Err(err).Msg("failed to write connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/match", h.HandleMatchConnection)
	mux.HandleFunc("/ws/tournament", h.HandleTournamentConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
