package http

import (
	"net/http"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MarkNonWorkingDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	displayLocation   *time.Location
}

// NewAttendanceHandler renders punch times in loc.
func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		displayLocation:   loc,
	}
}

// PunchIn records the punch-in of the caller, or of employee_id when set.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	att, err := h.attendanceService.PunchIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punched in successfully", att.In(h.displayLocation))
}

func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	att, err := h.attendanceService.PunchOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punched out successfully", att.In(h.displayLocation))
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := attendance.ListAttendanceQuery{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	rows, err := h.attendanceService.List(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.In(h.displayLocation))
	}
	response.Success(w, out)
}

func (h *attendanceHandlerImpl) MarkNonWorkingDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkNonWorkingDayRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.attendanceService.MarkNonWorkingDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
