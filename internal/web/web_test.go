package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniplan/internal/backup"
	"omniplan/internal/model"
	"omniplan/internal/state"
	"omniplan/internal/store"
	"omniplan/internal/suggest"
)

type memGateway struct {
	collections map[string]map[string][]byte
	subscribers map[string][]func()
}

func newMemGateway() *memGateway {
	return &memGateway{
		collections: map[string]map[string][]byte{
			store.CollectionBrands:    {},
			store.CollectionCampaigns: {},
		},
		subscribers: map[string][]func(){},
	}
}

func (g *memGateway) Put(_ context.Context, collection, id string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	g.collections[collection][id] = data
	for _, fn := range g.subscribers[collection] {
		fn()
	}
	return nil
}

func (g *memGateway) Delete(_ context.Context, collection, id string) error {
	delete(g.collections[collection], id)
	for _, fn := range g.subscribers[collection] {
		fn()
	}
	return nil
}

func (g *memGateway) Load(_ context.Context, collection string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(g.collections[collection]))
	for id, doc := range g.collections[collection] {
		out[id] = json.RawMessage(doc)
	}
	return out, nil
}

func (g *memGateway) Subscribe(_ context.Context, collection string, onChange func()) (func(), error) {
	g.subscribers[collection] = append(g.subscribers[collection], onChange)
	return func() {}, nil
}

type stubSuggester struct {
	gotBrand string
	gotMonth string
	ideas    []suggest.Suggestion
}

func (s *stubSuggester) Suggest(_ context.Context, brandName, _, monthLabel, _ string) []suggest.Suggestion {
	s.gotBrand = brandName
	s.gotMonth = monthLabel
	return s.ideas
}

func newTestServer(t *testing.T) (*Server, *state.Manager, *stubSuggester) {
	t.Helper()
	m := state.NewManager(newMemGateway())
	require.NoError(t, m.Start(context.Background()))

	sg := &stubSuggester{}
	s := NewServer(m, sg)
	s.now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }
	return s, m, sg
}

func doRequest(s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func seedCampaign(id, brandID, date string) model.Campaign {
	return model.Campaign{
		ID:      id,
		BrandID: brandID,
		Title:   "Campaign " + id,
		Date:    date,
		Status:  model.StatusPlanned,
		Type:    model.TypePromotion,
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestMonthView(t *testing.T) {
	s, m, _ := newTestServer(t)
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{
		seedCampaign("c1", "b1", "2024-03-20"),
		seedCampaign("c2", "b1", "2024-03-05"),
	}))

	w := doRequest(s, http.MethodGet, "/api/month", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp monthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "2024-03-01", resp.Month)
	assert.Equal(t, "Marzo", resp.Label)
	assert.Equal(t, 2024, resp.Year)
	require.Len(t, resp.Days, 42)

	today := 0
	for _, d := range resp.Days {
		if d.IsToday {
			today++
			assert.Equal(t, "2024-03-15", d.Date)
		}
	}
	assert.Equal(t, 1, today)

	require.Len(t, resp.Campaigns, 2)
	assert.Equal(t, "c2", resp.Campaigns[0].ID)
}

func TestMonthViewExplicitDate(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/month?date=2025-01-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp monthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-01-01", resp.Month)
	assert.Equal(t, "Enero", resp.Label)
	for _, d := range resp.Days {
		assert.False(t, d.IsToday)
	}
}

func TestMonthViewRejectsBadDate(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/month?date=15-03-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCampaignSingle(t *testing.T) {
	s, m, _ := newTestServer(t)

	body := []byte(`{"brandId":"b1","title":"Lanzamiento","date":"2024-03-10"}`)
	w := doRequest(s, http.MethodPost, "/api/campaigns", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created []model.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
	assert.Equal(t, model.StatusPlanned, created[0].Status)
	assert.Equal(t, model.TypeLaunch, created[0].Type)

	assert.Len(t, m.Campaigns(), 1)
}

func TestCreateCampaignWeeklyRecurrence(t *testing.T) {
	s, m, _ := newTestServer(t)

	body := []byte(`{"brandId":"b1","title":"Serie","date":"2024-03-10","type":"promotion","recurrence":"weekly","repeatCount":3}`)
	w := doRequest(s, http.MethodPost, "/api/campaigns", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created []model.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 3)
	assert.Equal(t, "2024-03-10", created[0].Date)
	assert.Equal(t, "2024-03-17", created[1].Date)
	assert.Equal(t, "2024-03-24", created[2].Date)

	seen := map[string]bool{}
	for _, c := range created {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}
	assert.Len(t, m.Campaigns(), 3)
}

func TestCreateCampaignRejectsBadRecurrence(t *testing.T) {
	s, _, _ := newTestServer(t)

	for name, body := range map[string]string{
		"unknown kind":  `{"brandId":"b1","title":"X","date":"2024-03-10","recurrence":"daily","repeatCount":2}`,
		"zero count":    `{"brandId":"b1","title":"X","date":"2024-03-10","recurrence":"weekly"}`,
		"missing title": `{"brandId":"b1","date":"2024-03-10"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/api/campaigns", []byte(body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateCampaignKeepsID(t *testing.T) {
	s, m, _ := newTestServer(t)
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{seedCampaign("c1", "b1", "2024-03-10")}))

	body := []byte(`{"id":"ignored","brandId":"b1","title":"Editado","date":"2024-03-11","status":"sent","type":"promotion"}`)
	w := doRequest(s, http.MethodPut, "/api/campaigns/c1", body)
	require.Equal(t, http.StatusOK, w.Code)

	got := m.Campaigns()
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "Editado", got[0].Title)
	assert.Equal(t, model.StatusSent, got[0].Status)
}

func TestDeleteCampaign(t *testing.T) {
	s, m, _ := newTestServer(t)
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{seedCampaign("c1", "b1", "2024-03-10")}))

	w := doRequest(s, http.MethodDelete, "/api/campaigns/c1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, m.Campaigns())
}

func TestBrandFilterParameter(t *testing.T) {
	s, m, _ := newTestServer(t)
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{
		seedCampaign("c1", "b1", "2024-03-10"),
		seedCampaign("c2", "b2", "2024-03-11"),
		seedCampaign("c3", "b1", "2024-03-12"),
	}))

	w := doRequest(s, http.MethodGet, "/api/campaigns?brands=b1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []model.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)
}

func TestListBrandsDefaults(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/brands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []model.Brand
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, len(model.DefaultBrands))
}

func TestSaveBrand(t *testing.T) {
	s, m, _ := newTestServer(t)

	w := doRequest(s, http.MethodPut, "/api/brands/x1", []byte(`{"name":"Acme","industry":"retail"}`))
	require.Equal(t, http.StatusOK, w.Code)

	got := m.Brands()
	require.Len(t, got, 1)
	assert.Equal(t, "x1", got[0].ID)

	w = doRequest(s, http.MethodPut, "/api/brands/x2", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEndpoints(t *testing.T) {
	s, m, _ := newTestServer(t)
	c := seedCampaign("c1", "b1", "2024-03-10")
	c.Time = "09:30"
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{c}))

	w := doRequest(s, http.MethodGet, "/api/export/ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Body.String(), "UID:c1@omniplan.app")

	w = doRequest(s, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "ID,Brand,Date,Time,Title,Type,Status,Segment"))
}

func TestBackupAndRestoreRoundTrip(t *testing.T) {
	s, m, _ := newTestServer(t)
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{seedCampaign("c1", "b1", "2024-03-10")}))

	w := doRequest(s, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported := w.Body.Bytes()

	doc, err := backup.Decode(exported)
	require.NoError(t, err)
	require.Len(t, doc.Campaigns, 1)
	assert.Equal(t, "c1", doc.Campaigns[0].ID)
	assert.Len(t, doc.Brands, len(model.DefaultBrands))

	// A fresh instance restores the whole document.
	s2, m2, _ := newTestServer(t)
	w = doRequest(s2, http.MethodPost, "/api/restore", exported)
	require.Equal(t, http.StatusOK, w.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["campaigns"])
	assert.Len(t, m2.Campaigns(), 1)
}

func TestRestoreRejectsMalformedDocument(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/restore", []byte(`{"campaigns": []}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareCodeRoundTrip(t *testing.T) {
	s, m, _ := newTestServer(t)
	require.NoError(t, m.SaveCampaigns(context.Background(), []model.Campaign{seedCampaign("c1", "b1", "2024-03-10")}))

	w := doRequest(s, http.MethodGet, "/api/share", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp shareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Code)

	s2, m2, _ := newTestServer(t)
	body, err := json.Marshal(shareResponse{Code: "  " + resp.Code + "\n"})
	require.NoError(t, err)
	w = doRequest(s2, http.MethodPost, "/api/share", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, m2.Campaigns(), 1)
}

func TestShareImportRejectsGarbage(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/share", []byte(`{"code":"not base64!!"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestUsesBrandAndMonth(t *testing.T) {
	s, _, sg := newTestServer(t)
	sg.ideas = []suggest.Suggestion{{Title: "Idea", Description: "Detalle"}}

	body := []byte(`{"brandId":"b1","date":"2024-12-05","type":"promotion"}`)
	w := doRequest(s, http.MethodPost, "/api/suggest", body)
	require.Equal(t, http.StatusOK, w.Code)

	var got []suggest.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Idea", got[0].Title)
	assert.Equal(t, "Diciembre", sg.gotMonth)
	assert.Equal(t, model.DefaultBrands[0].Name, sg.gotBrand)
}

func TestSuggestUnknownBrandReturnsEmptyList(t *testing.T) {
	s, _, sg := newTestServer(t)
	sg.ideas = []suggest.Suggestion{{Title: "Idea"}}

	w := doRequest(s, http.MethodPost, "/api/suggest", []byte(`{"brandId":"nope","date":"2024-12-05"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
	assert.Empty(t, sg.gotBrand)
}
