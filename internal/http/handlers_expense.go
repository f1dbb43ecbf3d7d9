package http

import (
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/form"
	applog "expensetracker/internal/log"
)

const recentLimit = 20

// handleCreateExpense submits the entry form and re-renders it. Validation
// problems and store failures are shown inline, so the response is always
// 200 for HTMX to swap it in.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	ctx := r.Context()
	user := identity(r)
	f := form.FromValues(FormValues(r.PostForm))
	submitted := f.Values
	state := f.Submit(ctx, s.expenses, user.ID, s.now())

	body, err := s.render(r, "expense_form", expensesPanel{Form: f, Today: s.today().String()})
	if err != nil {
		InternalServerError("Something went wrong rendering the form.").Write(w)
		return
	}
	resp := NewHTMXResponse().BodyHTML(body)

	switch state {
	case form.Success:
		cents, _ := core.ParseDecimalToCents(submitted.Amount)
		applog.LogExpenseCreated(ctx, user.ID, f.CreatedID, cents, submitted.Category)
		resp.TriggerExpenseCreated(f.CreatedID).
			TriggerFormReset().
			TriggerSuccessNotification(f.Message)
	case form.Failed:
		resp.TriggerErrorNotification(f.Message)
	}
	f.Settle()
	resp.Write(w)
}

type expenseRow struct {
	ID          string
	Date        string
	Icon        string
	Color       string
	Category    string
	Description string
	Amount      string
}

type expenseListData struct {
	Rows  []expenseRow
	Total int
	Error string
}

// handleExpenseList renders the most recent records under the form.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	res := s.expenses.ListForUser(r.Context(), identity(r).ID)
	data := expenseListData{}
	if !res.Success {
		data.Error = "Error loading expenses: " + res.Error
	} else {
		data.Total = len(res.Data)
		for i, e := range res.Data {
			if i == recentLimit {
				break
			}
			style := core.CategoryStyle(e.Category)
			data.Rows = append(data.Rows, expenseRow{
				ID:          e.ID,
				Date:        e.Date.Format("Jan 2, 2006"),
				Icon:        style.Icon,
				Color:       style.Color,
				Category:    e.Category,
				Description: e.Description,
				Amount:      e.Amount.String(),
			})
		}
	}
	s.page(w, r, "expense_list", data)
}
