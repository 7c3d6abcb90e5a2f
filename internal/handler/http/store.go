package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type StoreHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetCalendar(w http.ResponseWriter, r *http.Request)
	UpdateCalendar(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
}

type storeHandlerImpl struct {
	calendarService store.CalendarService
}

func NewStoreHandler(calendarService store.CalendarService) StoreHandler {
	return &storeHandlerImpl{calendarService: calendarService}
}

func (h *storeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.calendarService.ListStores(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stores)
}

func (h *storeHandlerImpl) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.calendarService.GetCalendar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cal)
}

func (h *storeHandlerImpl) UpdateCalendar(w http.ResponseWriter, r *http.Request) {
	var req store.UpdateCalendarRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	cal, err := h.calendarService.UpdateCalendar(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calendar updated", cal)
}

func (h *storeHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req store.CreateHolidayRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	holiday, err := h.calendarService.CreateHoliday(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", holiday)
}

func (h *storeHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.calendarService.DeleteHoliday(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "holidayID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}
