package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskstack/backend/api/transport"
	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if payload == nil {
		ctx.ResetBody()
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("response serialization failed", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		ctx.SetBody([]byte(`{"error":{"kind":"InternalError","message":"unexpected error"}}`))
		return
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, kind := mapError(err)

	message := err.Error()
	var details []domain.FieldViolation
	switch kind {
	case transport.KindValidationError:
		details = domain.ViolationsOf(err)
	case transport.KindInternalError:
		// never leak internals
		h.logger.Error("request failed", zap.Error(err))
		message = "unexpected error"
	}

	h.respondJSON(ctx, status, transport.NewError(kind, message, details))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		return http.StatusBadRequest, transport.KindValidationError
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, transport.KindNotFound
	default:
		return http.StatusInternalServerError, transport.KindInternalError
	}
}
