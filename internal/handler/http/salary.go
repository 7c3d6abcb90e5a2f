package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Recompute(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func (h *salaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateSalaryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	s, err := h.salaryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary created", s)
}

func (h *salaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	salaries, err := h.salaryService.List(r.Context(), salary.ListSalaryQuery{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      getIntQueryParam(r, "month", 0),
		Year:       getIntQueryParam(r, "year", 0),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salaries)
}

func (h *salaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.salaryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}

func (h *salaryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateSalaryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	s, err := h.salaryService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary updated", s)
}

// Recompute refreshes the derived fields from current attendance, leave,
// overtime and expenses.
func (h *salaryHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	s, err := h.salaryService.Recompute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}
