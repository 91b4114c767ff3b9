package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepluxmed/medscales/internal/catalog"
	"github.com/deepluxmed/medscales/internal/services"
)

// ScaleView is the catalog listing shape: definition metadata plus the
// caller-visible favorite flag.
type ScaleView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Acronym        string   `json:"acronym"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Specialty      string   `json:"specialty"`
	BodySystem     string   `json:"body_system"`
	Tags           []string `json:"tags,omitempty"`
	TimeToComplete string   `json:"time_to_complete"`
	MaxScore       int      `json:"max_score"`
	QuestionCount  int      `json:"question_count"`
	Favorite       bool     `json:"favorite"`
}

func (s *Server) scaleView(def *catalog.Definition) (ScaleView, error) {
	fav, err := s.store.IsFavorite(def.ID)
	if err != nil {
		return ScaleView{}, err
	}
	return ScaleView{
		ID:             def.ID,
		Name:           def.Name,
		Acronym:        def.Acronym,
		Description:    def.Description,
		Category:       def.Category,
		Specialty:      def.Specialty,
		BodySystem:     def.BodySystem,
		Tags:           def.Tags,
		TimeToComplete: def.TimeToComplete,
		MaxScore:       def.MaxScore(),
		QuestionCount:  len(def.Questions),
		Favorite:       fav,
	}, nil
}

func (s *Server) scaleViews(defs []*catalog.Definition) ([]ScaleView, error) {
	out := make([]ScaleView, 0, len(defs))
	for _, def := range defs {
		view, err := s.scaleView(def)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// GET /api/scales?q=&category=&specialty=
func (s *Server) listScales(c echo.Context) error {
	defs := s.registry.List()
	if q := c.QueryParam("q"); q != "" {
		defs = s.registry.Search(q)
	} else if cat := c.QueryParam("category"); cat != "" {
		defs = s.registry.ListByCategory(cat)
	} else if sp := c.QueryParam("specialty"); sp != "" {
		defs = s.registry.ListBySpecialty(sp)
	}
	views, err := s.scaleViews(defs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) getScale(c echo.Context) error {
	def := s.registry.Get(c.Param("id"))
	if def == nil {
		return echo.NewHTTPError(http.StatusNotFound, "scale not found")
	}
	fav, err := s.store.IsFavorite(def.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"scale":    def,
		"favorite": fav,
	})
}

// POST /api/scales/:id/view records the scale at the front of the
// recently-viewed list.
func (s *Server) viewScale(c echo.Context) error {
	def := s.registry.Get(c.Param("id"))
	if def == nil {
		return echo.NewHTTPError(http.StatusNotFound, "scale not found")
	}
	if err := s.store.TouchRecent(def.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listRecentScales(c echo.Context) error {
	ids, err := s.store.ListRecent()
	if err != nil {
		return httpError(err)
	}
	views, err := s.scaleViews(s.resolve(ids))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) listFavoriteScales(c echo.Context) error {
	ids, err := s.store.ListFavorites()
	if err != nil {
		return httpError(err)
	}
	views, err := s.scaleViews(s.resolve(ids))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// resolve drops ids whose definitions are no longer registered, so a stale
// favorite or recent entry never 500s a listing.
func (s *Server) resolve(ids []string) []*catalog.Definition {
	out := make([]*catalog.Definition, 0, len(ids))
	for _, id := range ids {
		if def := s.registry.Get(id); def != nil {
			out = append(out, def)
		}
	}
	return out
}

func (s *Server) addFavorite(c echo.Context) error {
	if s.registry.Get(c.Param("id")) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "scale not found")
	}
	if err := s.store.AddFavorite(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removeFavorite(c echo.Context) error {
	if err := s.store.RemoveFavorite(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- sessions --

func (s *Server) startSession(c echo.Context) error {
	var req struct {
		ScaleID string `json:"scale_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := s.sessions.Start(req.ScaleID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

func (s *Server) getSession(c echo.Context) error {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) updateSessionPatient(c echo.Context) error {
	var patch services.PatientInfo
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := s.sessions.UpdatePatient(c.Param("id"), patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) beginQuestions(c echo.Context) error {
	sess, err := s.sessions.BeginQuestions(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) recordAnswer(c echo.Context) error {
	var req struct {
		QuestionID string `json:"question_id"`
		Value      int    `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := s.sessions.RecordAnswer(c.Param("id"), req.QuestionID, req.Value)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) nextQuestion(c echo.Context) error {
	sess, err := s.sessions.NextQuestion(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) prevQuestion(c echo.Context) error {
	sess, err := s.sessions.PrevQuestion(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) resetSession(c echo.Context) error {
	sess, err := s.sessions.Reset(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

// -- patients --

func (s *Server) listPatients(c echo.Context) error {
	ps, err := s.patients.List()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (s *Server) createPatient(c echo.Context) error {
	var in services.PatientInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := s.patients.Create(in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) getPatient(c echo.Context) error {
	p, err := s.patients.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) updatePatient(c echo.Context) error {
	var in services.PatientInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := s.patients.Update(c.Param("id"), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deletePatient(c echo.Context) error {
	removed, err := s.patients.Delete(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"assessments_removed": removed})
}

// -- assessments --

func (s *Server) listAssessments(c echo.Context) error {
	var (
		as  []*services.Assessment
		err error
	)
	switch {
	case c.QueryParam("patient_id") != "":
		as, err = s.assessments.ListByPatient(c.QueryParam("patient_id"))
	case c.QueryParam("scale_id") != "":
		as, err = s.assessments.ListByScale(c.QueryParam("scale_id"))
	default:
		as, err = s.assessments.List()
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, as)
}

func (s *Server) getAssessment(c echo.Context) error {
	a, err := s.assessments.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAssessment(c echo.Context) error {
	if err := s.assessments.Delete(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) attachAssessmentPatient(c echo.Context) error {
	var req struct {
		PatientID string `json:"patient_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, err := s.patients.Get(req.PatientID); err != nil {
		return httpError(err)
	}
	a, err := s.assessments.AttachPatient(c.Param("id"), req.PatientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// POST /api/assessments/:id/export renders the printable report through the
// configured document renderer.
func (s *Server) exportAssessment(c echo.Context) error {
	a, err := s.assessments.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	out, err := s.export.Export(a)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/assessments/export?format=csv|xlsx streams the assessment history.
func (s *Server) exportHistory(c echo.Context) error {
	as, err := s.assessments.List()
	if err != nil {
		return httpError(err)
	}
	switch c.QueryParam("format") {
	case "", "csv":
		b, err := services.ExportHistoryCSV(as)
		if err != nil {
			return httpError(err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="assessments.csv"`)
		return c.Blob(http.StatusOK, "text/csv", b)
	case "xlsx":
		b, err := services.ExportHistoryXLSX(as)
		if err != nil {
			return httpError(err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="assessments.xlsx"`)
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported format")
	}
}
