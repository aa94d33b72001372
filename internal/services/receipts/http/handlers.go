// Package http provides http transport for receipts
package http

import (
	stdhttp "net/http"
	"strconv"

	"receiptjar/internal/modkit/httpkit"
	"receiptjar/internal/services/receipts/domain"
	svc "receiptjar/internal/services/receipts/service"
)

// Register mounts receipt endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.Input](r, "/receipt", h.create)
	httpkit.Get(r, "/receipt/{id}", h.get)
	httpkit.Get(r, "/receipts", h.list)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /receipt Receipts receiptCreate
// @Summary Record a receipt, deduplicating resubmissions inside a short window
// @Tags Receipts
// @Accept json
// @Produce json
// @Param payload body domain.Input true "Receipt fields"
// @Success 201 {object} domain.Receipt "created"
// @Success 200 {object} httpkit.Envelope "duplicate submission, nothing written"
// @Router /receipt [post]
func (h *handlers) create(r *stdhttp.Request, in domain.Input) (any, error) {
	res, err := h.svc.Ingest(r.Context(), in)
	if err != nil {
		return nil, err
	}
	if res.Duplicate {
		return httpkit.Duplicate(), nil
	}
	return httpkit.Created(res.Receipt), nil
}

// swagger:route GET /receipt/{id} Receipts receiptGet
// @Summary Fetch one receipt by id
// @Tags Receipts
// @Produce json
// @Param id path string true "Receipt id"
// @Success 200 {object} domain.Receipt "ok"
// @Router /receipt/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := httpkit.URLParam(r, "id")
	return h.svc.Get(r.Context(), id)
}

// swagger:route GET /receipts Receipts receiptsList
// @Summary List recent receipts, most recent first
// @Tags Receipts
// @Produce json
// @Param limit query int false "Max results, clamped to 1..200, default 50"
// @Success 200 {array} domain.Receipt "ok"
// @Router /receipts [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.svc.ListRecent(r.Context(), domain.ListInput{Limit: limit})
	if err != nil {
		return nil, err
	}
	return httpkit.List(items, len(items)), nil
}
