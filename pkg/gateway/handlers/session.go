package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vango-go/vai-console-lite/pkg/core"
	"github.com/vango-go/vai-console-lite/pkg/gateway/config"
	"github.com/vango-go/vai-console-lite/pkg/gateway/mw"
	"github.com/vango-go/vai-console-lite/pkg/gateway/upstream"
)

// SessionHandler exchanges an agent id for a session credential by
// forwarding the request upstream with the gateway's bearer key. The
// exchange is stateless per call; there is no retry logic.
type SessionHandler struct {
	Config   config.Config
	Upstream *upstream.Client
	Logger   *slog.Logger
}

type sessionRequest struct {
	AgentID string `json:"agent_id"`
}

func (h SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())

	if r.Method != http.MethodPost {
		writeCoreErrorJSON(w, reqID, &core.Error{
			Type:    core.ErrInvalidRequest,
			Message: "method not allowed",
			Code:    "method_not_allowed",
		}, http.StatusMethodNotAllowed)
		return
	}

	var req sessionRequest
	body := http.MaxBytesReader(w, r.Body, h.Config.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, reqID, core.NewInvalidRequestError("invalid JSON body"))
		return
	}

	agentID := strings.TrimSpace(req.AgentID)
	if agentID == "" {
		agentID = h.Config.DefaultAgentID
	}
	if agentID == "" {
		writeError(w, reqID, core.NewInvalidRequestErrorWithParam("agent_id is required", "agent_id"))
		return
	}

	payload, err := h.Upstream.ExchangeSession(r.Context(), agentID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("session exchange failed", "request_id", reqID, "agent_id", agentID, "error", err)
		}
		writeError(w, reqID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
