package routes

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// apiResponse is the envelope every REST endpoint answers with.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

type iceServer struct {
	URLs string `json:"urls"`
}

// GetIceServers returns the STUN/TURN list clients use for connection setup.
func (h *Handler) GetIceServers(w http.ResponseWriter, r *http.Request) {
	servers := make([]iceServer, 0, len(h.iceServers))
	for _, url := range h.iceServers {
		servers = append(servers, iceServer{URLs: url})
	}

	writeJSON(w, apiResponse{
		Success: true,
		Data:    map[string]interface{}{"iceServers": servers},
		Message: "ICE servers retrieved successfully",
	})
}

// GetStats returns the live matchmaking counters.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, apiResponse{
		Success: true,
		Data:    h.matchmaker.Stats(),
		Message: "Stats retrieved successfully",
	})
}

// HealthCheck is the unauthenticated liveness probe.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Signaling server is healthy."))
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Error encoding response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
