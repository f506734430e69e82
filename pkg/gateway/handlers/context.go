package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vango-go/vai-console-lite/pkg/console/knowledge"
	"github.com/vango-go/vai-console-lite/pkg/core"
	"github.com/vango-go/vai-console-lite/pkg/gateway/mw"
)

// ContextHandler serves the prompt-ready knowledge block consumed by
// whatever generates assistant responses.
type ContextHandler struct {
	Base knowledge.Base
}

func (h ContextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	if r.Method != http.MethodGet {
		writeCoreErrorJSON(w, reqID, &core.Error{
			Type:    core.ErrInvalidRequest,
			Message: "method not allowed",
			Code:    "method_not_allowed",
		}, http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"prompt": h.Base.Prompt()})
}
