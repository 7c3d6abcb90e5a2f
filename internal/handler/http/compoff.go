package http

import (
	"net/http"

	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type CompOffHandler interface {
	History(w http.ResponseWriter, r *http.Request)
}

type compOffHandlerImpl struct {
	compOffService compoff.CompOffService
}

func NewCompOffHandler(compOffService compoff.CompOffService) CompOffHandler {
	return &compOffHandlerImpl{compOffService: compOffService}
}

func (h *compOffHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.compOffService.ListHistory(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}
