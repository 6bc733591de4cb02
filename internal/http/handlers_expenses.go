package http

import (
	"net/http"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Expenses.List(r.Context()))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := req.toExpense()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.app.Expenses.Add(r.Context(), e)
	if err != nil {
		s.writeServiceError(w, r, "create_expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
