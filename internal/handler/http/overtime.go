package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type OvertimeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: overtimeService}
}

func (h *overtimeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req overtime.CreateOvertimeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	ot, err := h.overtimeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime request submitted", ot)
}

func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	requests, err := h.overtimeService.List(r.Context(), overtime.ListOvertimeQuery{
		EmployeeID: q.Get("employee_id"),
		Status:     q.Get("status"),
		Month:      getIntQueryParam(r, "month", 0),
		Year:       getIntQueryParam(r, "year", 0),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

func (h *overtimeHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req overtime.DecisionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	ot, err := h.overtimeService.Decide(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", ot)
}
