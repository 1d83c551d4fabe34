package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/studygo/planner/api/transport"
	"github.com/studygo/planner/internal/services"
	"github.com/studygo/planner/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	persister *services.Persister
}

func NewHealthHandler(persister *services.Persister, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		persister:   persister,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	dirty := h.persister.Dirty()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"storage": map[string]interface{}{
			"dirty": dirty,
		},
	}

	if !dirty {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "pending snapshot not yet persisted", payload))
}
