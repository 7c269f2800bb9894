// Package web exposes the planner over HTTP/JSON. All view computation
// runs against the state manager's current snapshots; writes go through
// the manager so validation always happens before persistence.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"omniplan/internal/backup"
	"omniplan/internal/calendar"
	"omniplan/internal/dateutil"
	"omniplan/internal/export"
	appLog "omniplan/internal/log"
	"omniplan/internal/model"
	"omniplan/internal/query"
	"omniplan/internal/recur"
	"omniplan/internal/state"
	"omniplan/internal/suggest"
)

// Suggester is the suggestion-service surface the API needs.
type Suggester interface {
	Suggest(ctx context.Context, brandName, industry, monthLabel, typeLabel string) []suggest.Suggestion
}

// Server wires the planner's HTTP routes.
type Server struct {
	st        *state.Manager
	suggester Suggester
	router    chi.Router

	// now is the clock; tests pin it.
	now func() time.Time
}

func NewServer(st *state.Manager, suggester Suggester) *Server {
	s := &Server{
		st:        st,
		suggester: suggester,
		router:    chi.NewRouter(),
		now:       time.Now,
	}
	s.routes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Get("/api/month", s.handleMonth)

	s.router.Get("/api/campaigns", s.handleListCampaigns)
	s.router.Post("/api/campaigns", s.handleCreateCampaigns)
	s.router.Put("/api/campaigns/{id}", s.handleUpdateCampaign)
	s.router.Delete("/api/campaigns/{id}", s.handleDeleteCampaign)

	s.router.Get("/api/brands", s.handleListBrands)
	s.router.Put("/api/brands/{id}", s.handleSaveBrand)
	s.router.Delete("/api/brands/{id}", s.handleDeleteBrand)

	s.router.Get("/api/export/ics", s.handleExportICS)
	s.router.Get("/api/export/csv", s.handleExportCSV)

	s.router.Get("/api/backup", s.handleBackup)
	s.router.Post("/api/restore", s.handleRestore)
	s.router.Get("/api/share", s.handleShareCode)
	s.router.Post("/api/share", s.handleShareImport)

	s.router.Post("/api/suggest", s.handleSuggest)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// monthResponse is the month-view payload: the fixed 42-cell grid plus
// the filtered, chronologically ordered campaigns.
type monthResponse struct {
	Month     string              `json:"month"` // first day of the month, ISO
	Label     string              `json:"label"`
	Year      int                 `json:"year"`
	Days      []model.CalendarDay `json:"days"`
	Campaigns []model.Campaign    `json:"campaigns"`
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	now := s.now()

	ref := now
	if ds := r.URL.Query().Get("date"); ds != "" {
		parsed, err := dateutil.ParseISODate(ds)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	campaigns := s.selectedCampaigns(r)

	resp := monthResponse{
		Month:     dateutil.FormatISODate(dateutil.StartOfMonth(ref)),
		Label:     model.MonthNames[ref.Month()],
		Year:      ref.Year(),
		Days:      calendar.MonthGrid(ref, now),
		Campaigns: campaigns,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.selectedCampaigns(r))
}

// createCampaignRequest carries the campaign template plus the
// recurrence rule applied at creation time. The template's id, when
// present, is ignored; every created instance gets a fresh one.
type createCampaignRequest struct {
	model.Campaign
	Recurrence  string `json:"recurrence"`
	RepeatCount int    `json:"repeatCount"`
}

func (s *Server) handleCreateCampaigns(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	kind, err := recur.ParseKind(req.Recurrence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := dateutil.ParseISODate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	template := s.normalizeTemplate(req.Campaign)

	count := req.RepeatCount
	if kind != recur.None && count < 1 {
		writeError(w, http.StatusBadRequest, "repeatCount must be at least 1")
		return
	}

	created, err := recur.Expand(template, start, kind, count, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.st.SaveCampaigns(r.Context(), created); err != nil {
		writeSaveError(w, err)
		return
	}

	appLog.Info("campaigns created", "count", len(created), "recurrence", string(kind))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var c model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c = s.normalizeTemplate(c)
	c.ID = id

	// In-place edits never re-expand recurrence; they touch exactly one
	// stored instance.
	if err := s.st.SaveCampaigns(r.Context(), []model.Campaign{c}); err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.st.DeleteCampaign(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBrands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.st.Brands())
}

func (s *Server) handleSaveBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var b model.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	b.ID = id

	if err := s.st.SaveBrand(r.Context(), b); err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.st.DeleteBrand(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	campaigns := s.selectedCampaigns(r)
	lookup := model.BrandLookup(s.st.Brands())

	doc, err := export.ICS(campaigns, lookup, s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="OmniPlan.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	campaigns := s.selectedCampaigns(r)
	lookup := model.BrandLookup(s.st.Brands())

	doc, err := export.CSV(campaigns, lookup)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="OmniPlan.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

func (s *Server) handleBackup(w http.ResponseWriter, _ *http.Request) {
	data, err := backup.Encode(s.st.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="OmniPlan_Backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	doc, err := backup.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.st.ImportBackup(r.Context(), doc); err != nil {
		writeSaveError(w, err)
		return
	}

	appLog.Info("backup restored", "brands", len(doc.Brands), "campaigns", len(doc.Campaigns))
	writeJSON(w, http.StatusOK, map[string]int{
		"brands":    len(doc.Brands),
		"campaigns": len(doc.Campaigns),
	})
}

type shareResponse struct {
	Code string `json:"code"`
}

func (s *Server) handleShareCode(w http.ResponseWriter, _ *http.Request) {
	code, err := backup.EncodeShareCode(s.st.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Code: code})
}

func (s *Server) handleShareImport(w http.ResponseWriter, r *http.Request) {
	var req shareResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := backup.DecodeShareCode(strings.TrimSpace(req.Code))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.st.ImportBackup(r.Context(), doc); err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"brands":    len(doc.Brands),
		"campaigns": len(doc.Campaigns),
	})
}

type suggestRequest struct {
	BrandID string `json:"brandId"`
	Date    string `json:"date"`
	Type    string `json:"type"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	monthLabel := model.MonthNames[s.now().Month()]
	if d, err := dateutil.ParseISODate(req.Date); err == nil {
		monthLabel = model.MonthNames[d.Month()]
	}

	// An unknown brand or failing service both degrade to an empty
	// suggestion list; the form must never be blocked.
	ideas := []suggest.Suggestion{}
	if b, ok := model.BrandLookup(s.st.Brands())[req.BrandID]; ok {
		got := s.suggester.Suggest(r.Context(), b.Name, b.Industry, monthLabel, model.TypeLabel(model.CampaignType(req.Type)))
		if got != nil {
			ideas = got
		}
	}
	writeJSON(w, http.StatusOK, ideas)
}

// selectedCampaigns applies the brands query parameter (comma-separated
// ids; absent means every brand) and returns the filtered campaigns in
// chronological order.
func (s *Server) selectedCampaigns(r *http.Request) []model.Campaign {
	campaigns := s.st.Campaigns()

	selection := r.URL.Query().Get("brands")
	var ids []string
	if selection == "" {
		for _, b := range s.st.Brands() {
			ids = append(ids, b.ID)
		}
	} else {
		for _, id := range strings.Split(selection, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return query.SortByDateTime(query.FilterByBrands(campaigns, ids))
}

// normalizeTemplate fills the defaults the client form applies and
// makes sure nested touchpoints carry identifiers.
func (s *Server) normalizeTemplate(c model.Campaign) model.Campaign {
	if c.Status == "" {
		c.Status = model.StatusPlanned
	}
	if c.Type == "" {
		c.Type = model.TypeLaunch
	}
	if !c.Notify {
		c.NotifyEmail = ""
	}
	for i := range c.Touchpoints {
		if c.Touchpoints[i].ID == "" {
			c.Touchpoints[i].ID = recur.NewID()
		}
		if c.Touchpoints[i].Channel == "" {
			c.Touchpoints[i].Channel = model.ChannelNone
		}
	}
	return c
}

func writeSaveError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// External-store failure: surfaced with the underlying message, the
	// operation is treated as fully failed.
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
