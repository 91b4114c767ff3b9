package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deepluxmed/medscales/internal/catalog"
	"github.com/deepluxmed/medscales/internal/services"
)

type nullRenderer struct{}

func (nullRenderer) Render(string) (string, error) { return "/tmp/report.html", nil }
func (nullRenderer) Share(string, string) error    { return services.ErrNoShareTarget }

func newTestServer() (*echo.Echo, *Server) {
	e := echo.New()
	srv := NewServer(catalog.Builtin(), NewMemoryStore(0), nullRenderer{})
	srv.Register(e)
	return e, srv
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer()
	rec, body := doJSON(t, e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
}

type favoriteFailStore struct {
	Store
}

func (favoriteFailStore) IsFavorite(string) (bool, error) {
	return false, errors.New("favorites table unreadable")
}

func TestScaleListingSurfacesFavoriteLookupFailure(t *testing.T) {
	e := echo.New()
	srv := NewServer(catalog.Builtin(), favoriteFailStore{NewMemoryStore(0)}, nullRenderer{})
	srv.Register(e)

	for _, path := range []string{"/api/scales", "/api/scales/barthel"} {
		rec, _ := doJSON(t, e, http.MethodGet, path, "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("GET %s: code=%d, want 500", path, rec.Code)
		}
	}
}

func TestListScalesAndFilters(t *testing.T) {
	e, _ := newTestServer()
	for _, path := range []string{
		"/api/scales",
		"/api/scales?q=barthel",
		"/api/scales?category=functional",
		"/api/scales?specialty=rehabilitation",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: code=%d", path, rec.Code)
		}
		var views []ScaleView
		if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if len(views) != 1 || views[0].ID != "barthel" {
			t.Fatalf("%s: views=%v", path, views)
		}
		if views[0].MaxScore != 100 || views[0].QuestionCount != 10 {
			t.Fatalf("%s: view=%+v", path, views[0])
		}
	}

	rec, _ := doJSON(t, e, http.MethodGet, "/api/scales/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown scale: code=%d", rec.Code)
	}
}

func TestFavoritesAndRecent(t *testing.T) {
	e, _ := newTestServer()

	if rec, _ := doJSON(t, e, http.MethodPut, "/api/scales/barthel/favorite", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("favorite: code=%d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/scales/favorites", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var favs []ScaleView
	json.Unmarshal(rec.Body.Bytes(), &favs)
	if len(favs) != 1 || !favs[0].Favorite {
		t.Fatalf("favs=%v", favs)
	}

	if rec, _ := doJSON(t, e, http.MethodPost, "/api/scales/barthel/view", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("view: code=%d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/scales/recent", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var recent []ScaleView
	json.Unmarshal(rec.Body.Bytes(), &recent)
	if len(recent) != 1 || recent[0].ID != "barthel" {
		t.Fatalf("recent=%v", recent)
	}

	if rec, _ := doJSON(t, e, http.MethodDelete, "/api/scales/barthel/favorite", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("unfavorite: code=%d", rec.Code)
	}
	if rec, _ := doJSON(t, e, http.MethodPut, "/api/scales/nope/favorite", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("favorite unknown scale: code=%d", rec.Code)
	}
}

func TestAssessmentFlowOverHTTP(t *testing.T) {
	e, _ := newTestServer()

	rec, sess := doJSON(t, e, http.MethodPost, "/api/sessions", `{"scale_id":"barthel"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: code=%d body=%s", rec.Code, rec.Body.String())
	}
	sid := sess["id"].(string)

	rec, _ = doJSON(t, e, http.MethodPost, "/api/sessions/"+sid+"/begin", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("begin with empty form: code=%d", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodPatch, "/api/sessions/"+sid+"/patient",
		`{"name":"Jane Roe","age":"74","gender":"female","doctor_name":"Dr. Smith"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch patient: code=%d", rec.Code)
	}
	rec, _ = doJSON(t, e, http.MethodPost, "/api/sessions/"+sid+"/begin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("begin: code=%d body=%s", rec.Code, rec.Body.String())
	}

	def := catalog.Barthel()
	var last map[string]any
	for _, q := range def.Questions {
		body := `{"question_id":"` + q.ID + `","value":` + itoa(q.Options[0].Value) + `}`
		if rec, _ = doJSON(t, e, http.MethodPost, "/api/sessions/"+sid+"/answers", body); rec.Code != http.StatusOK {
			t.Fatalf("answer %s: code=%d body=%s", q.ID, rec.Code, rec.Body.String())
		}
		if rec, last = doJSON(t, e, http.MethodPost, "/api/sessions/"+sid+"/next", ""); rec.Code != http.StatusOK {
			t.Fatalf("next after %s: code=%d body=%s", q.ID, rec.Code, rec.Body.String())
		}
	}

	if last["step"] != "results" {
		t.Fatalf("step=%v", last["step"])
	}
	result := last["result"].(map[string]any)
	if result["total"].(float64) != 100 || result["interpretation"] != "Total independence" {
		t.Fatalf("result=%v", result)
	}
	aid := last["assessment_id"].(string)

	rec, got := doJSON(t, e, http.MethodGet, "/api/assessments/"+aid, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get assessment: code=%d", rec.Code)
	}
	if got["score"].(float64) != 100 {
		t.Fatalf("assessment=%v", got)
	}

	rec, out := doJSON(t, e, http.MethodPost, "/api/assessments/"+aid+"/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: code=%d body=%s", rec.Code, rec.Body.String())
	}
	if out["uri"] == "" || out["shared"] != false {
		t.Fatalf("export outcome=%v", out)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/assessments/export?format=csv", nil)
	crec := httptest.NewRecorder()
	e.ServeHTTP(crec, req)
	if crec.Code != http.StatusOK || !strings.Contains(crec.Body.String(), "Total independence") {
		t.Fatalf("csv export: code=%d", crec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/assessments/"+aid, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: code=%d", rec.Code)
	}
	rec, _ = doJSON(t, e, http.MethodGet, "/api/assessments/"+aid, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: code=%d", rec.Code)
	}
	rec, _ = doJSON(t, e, http.MethodDelete, "/api/assessments/"+aid, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("repeat delete: code=%d", rec.Code)
	}
}

func TestPatientEndpointsAndCascade(t *testing.T) {
	e, srv := newTestServer()

	rec, p := doJSON(t, e, http.MethodPost, "/api/patients", `{"name":"Jane Roe","age":"74","gender":"female"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: code=%d", rec.Code)
	}
	pid := p["id"].(string)

	a, err := srv.assessments.Create("barthel", services.PatientInfo{Name: "Jane Roe"}, services.AnswerMap{"comida": 10}, "")
	if err != nil {
		t.Fatalf("seed assessment: %v", err)
	}
	rec, _ = doJSON(t, e, http.MethodPost, "/api/assessments/"+a.ID+"/patient", `{"patient_id":"`+pid+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("attach: code=%d body=%s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/assessments?patient_id="+pid, nil)
	lrec := httptest.NewRecorder()
	e.ServeHTTP(lrec, req)
	var list []map[string]any
	json.Unmarshal(lrec.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Fatalf("list by patient=%v", list)
	}

	rec, out := doJSON(t, e, http.MethodDelete, "/api/patients/"+pid, "")
	if rec.Code != http.StatusOK || out["assessments_removed"].(float64) != 1 {
		t.Fatalf("delete: code=%d out=%v", rec.Code, out)
	}
	rec, _ = doJSON(t, e, http.MethodGet, "/api/assessments/"+a.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cascade missed assessment: code=%d", rec.Code)
	}
}

func itoa(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}
