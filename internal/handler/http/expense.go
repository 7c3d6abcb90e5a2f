package http

import (
	"net/http"

	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

type ExpenseHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type expenseHandlerImpl struct {
	expenseService expense.ExpenseService
}

func NewExpenseHandler(expenseService expense.ExpenseService) ExpenseHandler {
	return &expenseHandlerImpl{expenseService: expenseService}
}

func (h *expenseHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req expense.CreateExpenseRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	e, err := h.expenseService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense recorded", e)
}

func (h *expenseHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.List(r.Context(), expense.ListExpenseQuery{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      getIntQueryParam(r, "month", 0),
		Year:       getIntQueryParam(r, "year", 0),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, expenses)
}
