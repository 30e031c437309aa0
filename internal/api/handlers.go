package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"portfoliodash/pkg/portfolio"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getHoldings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Holdings())
}

func (h *handler) getHoldingDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, portfolio.DefaultHoldingInput(h.store.Today()))
}

func (h *handler) addHolding(w http.ResponseWriter, r *http.Request) {
	var payload holdingFormPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input := payload.apply(portfolio.DefaultHoldingInput(h.store.Today()))
	holding := input.Holding()
	index, err := h.store.AddHolding(holding)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	holdings := h.store.Holdings()
	if index < len(holdings) {
		holding = holdings[index]
	}
	writeJSON(w, http.StatusCreated, addHoldingResponse{Index: index, Holding: holding})
}

func (h *handler) replaceHoldings(w http.ResponseWriter, r *http.Request) {
	var payload replaceHoldingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Holdings == nil {
		payload.Holdings = []portfolio.Holding{}
	}
	if err := h.store.ReplaceHoldings(payload.Holdings); err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Holdings())
}

func (h *handler) updateHolding(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(chi.URLParam(r, "index"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	var payload portfolio.Holding
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UpdateHolding(index, payload); err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	holdings := h.store.Holdings()
	if index >= len(holdings) {
		writeJSON(w, http.StatusOK, payload)
		return
	}
	writeJSON(w, http.StatusOK, holdings[index])
}

func (h *handler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(chi.URLParam(r, "index"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	if err := h.store.DeleteHolding(index); err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "deleted", map[string]int{"index": index})
}

func (h *handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.store.Summary()
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:           summary,
		TotalInvestedText: portfolio.FormatMoney(summary.TotalInvested, portfolio.CurrencyPLN),
		TotalFinalText:    portfolio.FormatOptionalMoney(summary.TotalFinal, portfolio.CurrencyPLN),
		TotalProfitText:   portfolio.FormatOptionalMoney(summary.TotalProfit, portfolio.CurrencyPLN),
	})
}

func (h *handler) getAllocation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Allocation())
}

func (h *handler) getCashFlow(w http.ResponseWriter, r *http.Request) {
	req, err := parseDashboardQuery(r, h.store)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, cashFlowResponse{
		Today:   req.Today,
		Months:  req.Months,
		Buckets: h.store.CashFlow(req.Today, req.Months),
	})
}

func (h *handler) getProfit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ProfitTable())
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := parseDashboardQuery(r, h.store)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := h.store.Dashboard(req)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getOperationLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := normalizeLimitOffset(
		parseIntDefault(query.Get("limit"), 100),
		parseIntDefault(query.Get("offset"), 0),
	)
	result, err := h.store.OperationLogs(limit, offset)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	if query.Get("paged") != "1" {
		writeJSON(w, http.StatusOK, result)
		return
	}
	writeSuccess(w, operationLogsResponse{Items: result, Limit: limit, Offset: offset})
}

// parseDashboardQuery reads ?today= and ?months=, resolving omitted values
// to the store's defaults.
func parseDashboardQuery(r *http.Request, store *portfolio.Store) (portfolio.DashboardRequest, error) {
	query := r.URL.Query()
	req := portfolio.DashboardRequest{Months: parseIntDefault(query.Get("months"), 0)}
	if raw := strings.TrimSpace(query.Get("today")); raw != "" {
		req.Today = portfolio.ParseDate(raw)
		if req.Today.IsZero() {
			return req, portfolio.NewError(portfolio.ErrCodeInvalidInput, "invalid today date")
		}
	} else {
		req.Today = store.Today()
	}
	if req.Months <= 0 {
		req.Months = store.HorizonMonths()
	}
	return req, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseIndex(value string) (int, bool) {
	i, err := strconv.Atoi(value)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func normalizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
