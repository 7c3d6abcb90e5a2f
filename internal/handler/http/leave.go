package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	lv, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave submitted successfully", lv)
}

func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leaves, err := l.leaveService.List(r.Context(), leave.ListLeaveQuery{
		EmployeeID: q.Get("employee_id"),
		Status:     q.Get("status"),
		Stage:      q.Get("stage"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaves)
}

// Get returns the leave together with its approval history.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	lv, err := l.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, lv)
}

func (l *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req leave.DecisionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	lv, err := l.leaveService.Decide(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", lv)
}

func (l *LeaveHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	if err := l.leaveService.Withdraw(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave withdrawn", nil)
}
