package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/analytics"
	"expensetracker/internal/core"
	"expensetracker/internal/form"
	"expensetracker/internal/records"
	"expensetracker/internal/services"
)

type apiError struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type expenseDTO struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	AmountCents int64     `json:"amountCents"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:          e.ID,
		Amount:      e.Amount.Float(),
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type categoryDTO struct {
	Value string `json:"value"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// writeResultError maps a failed store result to a status code and returns
// the store's message verbatim.
func writeResultError(w http.ResponseWriter, res services.Result) {
	status := http.StatusInternalServerError
	switch {
	case res.NotFound():
		status = http.StatusNotFound
	case res.Invalid():
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, apiError{Error: res.Error})
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	out := make([]categoryDTO, len(cats))
	for i, c := range cats {
		out[i] = categoryDTO{Value: c.Value, Icon: c.Icon, Color: c.Color}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (s *Server) handleAPIListExpenses(w http.ResponseWriter, r *http.Request) {
	res := s.expenses.ListForUser(r.Context(), identity(r).ID)
	if !res.Success {
		writeResultError(w, res)
		return
	}
	out := make([]expenseDTO, len(res.Data))
	for i, e := range res.Data {
		out[i] = toDTO(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (s *Server) handleAPICreateExpense(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	f := form.FromValues(body.FormValues())
	if f.Values.Date == "" {
		f.Values.Date = s.today().String()
	}
	if !f.Validate() {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Errors: f.Errors})
		return
	}

	res := s.expenses.Create(r.Context(), identity(r).ID, f.Expense())
	if !res.Success {
		writeResultError(w, res)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": res.ID})
}

// patchFromBody builds a patch from the fields present in the body,
// validating each with the same rules and messages as the entry form.
func patchFromBody(body bodyFields) (records.Patch, form.Errors) {
	var patch records.Patch
	errs := form.Errors{}

	if body.Has(form.FieldAmount) {
		cents, err := core.ParseDecimalToCents(body[form.FieldAmount])
		if err != nil || cents <= 0 {
			errs[form.FieldAmount] = form.MsgAmount
		} else {
			patch.Amount = &core.Money{Cents: cents}
		}
	}
	if body.Has(form.FieldCategory) {
		c := body[form.FieldCategory]
		if c == "" {
			errs[form.FieldCategory] = form.MsgCategory
		} else if _, ok := core.LookupCategory(c); !ok {
			errs[form.FieldCategory] = form.MsgBadCategory
		} else {
			patch.Category = &c
		}
	}
	if body.Has(form.FieldDescription) {
		d := body[form.FieldDescription]
		if !core.ValidDescription(d) {
			errs[form.FieldDescription] = form.MsgDescription
		} else {
			patch.Description = &d
		}
	}
	if body.Has(form.FieldDate) {
		d, err := core.ParseDate(body[form.FieldDate])
		if err != nil {
			errs[form.FieldDate] = form.MsgDate
		} else {
			patch.Date = &d
		}
	}
	return patch, errs
}

func (s *Server) handleAPIUpdateExpense(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	patch, errs := patchFromBody(body)
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Errors: errs})
		return
	}
	if patch.IsEmpty() {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "no fields to update"})
		return
	}

	res := s.expenses.Update(r.Context(), identity(r).ID, chi.URLParam(r, "id"), patch)
	if !res.Success {
		writeResultError(w, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": chi.URLParam(r, "id")})
}

func (s *Server) handleAPIDeleteExpense(w http.ResponseWriter, r *http.Request) {
	res := s.expenses.Delete(r.Context(), identity(r).ID, chi.URLParam(r, "id"))
	if !res.Success {
		writeResultError(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sliceDTO struct {
	Label   string  `json:"label"`
	Icon    string  `json:"icon"`
	Color   string  `json:"color"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

type seriesDTO struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type dailyDTO struct {
	Month     string    `json:"month"`
	Labels    []string  `json:"labels"`
	Values    []float64 `json:"values"`
	Intensity []string  `json:"intensity"`
}

type reportDTO struct {
	Window      core.Window `json:"window"`
	WindowStart string      `json:"windowStart"`
	Total       float64     `json:"total"`
	Count       int         `json:"count"`
	Average     float64     `json:"averagePerExpense"`
	TopCategory string      `json:"topCategory"`
	Categories  []sliceDTO  `json:"categories"`
	Trend       seriesDTO   `json:"trend"`
	Daily       dailyDTO    `json:"daily"`
}

func toReportDTO(rep analytics.Report) reportDTO {
	out := reportDTO{
		Window:      rep.Window,
		WindowStart: rep.WindowStart.String(),
		Total:       rep.Stats.Total.Float(),
		Count:       rep.Stats.Count,
		Average:     rep.Stats.Average.Float(),
		TopCategory: rep.Stats.TopCategory,
		Daily:       dailyDTO{Month: rep.Daily.Month},
	}
	for _, sl := range rep.Categories.Slices {
		out.Categories = append(out.Categories, sliceDTO{
			Label:   sl.Label,
			Icon:    sl.Icon,
			Color:   sl.Color,
			Amount:  sl.Amount.Float(),
			Percent: sl.Percent.InexactFloat64(),
		})
	}
	for _, p := range rep.Trend.Points {
		out.Trend.Labels = append(out.Trend.Labels, p.Label)
		out.Trend.Values = append(out.Trend.Values, p.Amount.Float())
	}
	for _, d := range rep.Daily.Days {
		out.Daily.Labels = append(out.Daily.Labels, d.Label)
		out.Daily.Values = append(out.Daily.Values, d.Amount.Float())
		out.Daily.Intensity = append(out.Daily.Intensity, string(d.Intensity))
	}
	return out
}

func (s *Server) handleAPIAnalytics(w http.ResponseWriter, r *http.Request) {
	res := s.expenses.ListForUser(r.Context(), identity(r).ID)
	if !res.Success {
		writeResultError(w, res)
		return
	}
	rep := analytics.Build(res.Data, ParseWindowParam(r.URL.Query()), s.now())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": toReportDTO(rep)})
}
