package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepluxmed/medscales/internal/catalog"
	"github.com/deepluxmed/medscales/internal/services"
)

// Server wires the catalog, the session engine and the persistence services
// behind the HTTP surface.
type Server struct {
	registry    *catalog.Registry
	store       Store
	sessions    *services.SessionService
	patients    *services.PatientService
	assessments *services.AssessmentService
	export      *services.ExportService
}

func NewServer(registry *catalog.Registry, store Store, renderer services.DocumentRenderer) *Server {
	assessments := services.NewAssessmentService(store)
	return &Server{
		registry:    registry,
		store:       store,
		sessions:    services.NewSessionService(registry, assessments),
		patients:    services.NewPatientService(store),
		assessments: assessments,
		export:      services.NewExportService(registry, renderer),
	}
}

// Sessions exposes the session engine so callers can tune its completion
// policy.
func (s *Server) Sessions() *services.SessionService { return s.sessions }

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.health)

	g := e.Group("/api")

	g.GET("/scales", s.listScales)
	g.GET("/scales/recent", s.listRecentScales)
	g.GET("/scales/favorites", s.listFavoriteScales)
	g.GET("/scales/:id", s.getScale)
	g.POST("/scales/:id/view", s.viewScale)
	g.PUT("/scales/:id/favorite", s.addFavorite)
	g.DELETE("/scales/:id/favorite", s.removeFavorite)

	g.POST("/sessions", s.startSession)
	g.GET("/sessions/:id", s.getSession)
	g.PATCH("/sessions/:id/patient", s.updateSessionPatient)
	g.POST("/sessions/:id/begin", s.beginQuestions)
	g.POST("/sessions/:id/answers", s.recordAnswer)
	g.POST("/sessions/:id/next", s.nextQuestion)
	g.POST("/sessions/:id/prev", s.prevQuestion)
	g.POST("/sessions/:id/reset", s.resetSession)

	g.GET("/patients", s.listPatients)
	g.POST("/patients", s.createPatient)
	g.GET("/patients/:id", s.getPatient)
	g.PUT("/patients/:id", s.updatePatient)
	g.DELETE("/patients/:id", s.deletePatient)

	g.GET("/assessments", s.listAssessments)
	g.GET("/assessments/export", s.exportHistory)
	g.GET("/assessments/:id", s.getAssessment)
	g.DELETE("/assessments/:id", s.deleteAssessment)
	g.POST("/assessments/:id/export", s.exportAssessment)
	g.POST("/assessments/:id/patient", s.attachAssessmentPatient)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// httpError maps the service error taxonomy onto HTTP status codes.
func httpError(err error) error {
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorInvalid:
			return echo.NewHTTPError(http.StatusBadRequest, se.Message)
		case services.ErrorNotFound:
			return echo.NewHTTPError(http.StatusNotFound, se.Message)
		case services.ErrorConflict:
			return echo.NewHTTPError(http.StatusConflict, se.Message)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
