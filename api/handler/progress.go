package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/studygo/planner/domain"
	"github.com/studygo/planner/pkg/httpcontext"
	identityUC "github.com/studygo/planner/usecase/identity"
	plannerUC "github.com/studygo/planner/usecase/planner"
)

// ProgressHandler exposes the read accessors the presentation layer
// renders from: the session user, their XP and streak, and the badge
// list.
type ProgressHandler struct {
	baseHandler
	identity *identityUC.UseCase
	planner  *plannerUC.UseCase
}

func NewProgressHandler(identity *identityUC.UseCase, planner *plannerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		baseHandler: newBaseHandler(adapter, logger),
		identity:    identity,
		planner:     planner,
	}
}

// @Summary Current user with XP and streak
// @Tags progress
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(ctx *fasthttp.RequestCtx) {
	user := h.identity.CurrentUser()
	if user == nil {
		h.respondError(ctx, domain.ErrNoActiveSession)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	badges, err := h.planner.Badges(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"user":   user,
		"badges": badges,
	})
}

// @Summary Session user's badge list
// @Tags progress
// @Router /api/v1/badges [get]
func (h *ProgressHandler) GetBadges(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	badges, err := h.planner.Badges(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, badges)
}
