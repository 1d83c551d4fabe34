package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RequireSession guards routes that mutate or read user-owned state.
// The presentation layer must never reach those routes logged out, so a
// miss is answered with 401 rather than raised further.
func RequireSession(active func() bool, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if !active() {
				logger.Warn("request without active session",
					zap.String("path", string(ctx.Path())),
					zap.String("method", string(ctx.Method())))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}
			next(ctx)
		}
	}
}
