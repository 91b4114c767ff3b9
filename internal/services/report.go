package services

import (
	"bytes"
	"errors"
	"html/template"
	"time"

	"github.com/deepluxmed/medscales/internal/catalog"
)

// DocumentRenderer turns a rendered HTML report into a shareable document.
// Render returns a URI for the produced document; Share hands that URI to an
// external destination.
type DocumentRenderer interface {
	Render(html string) (uri string, err error)
	Share(uri, title string) error
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>{{.ScaleName}} Results</title>
    <style>
      body { font-family: sans-serif; margin: 20px; }
      .container { max-width: 800px; margin: 0 auto; }
      .header { text-align: center; margin-bottom: 30px; }
      .section { margin-bottom: 20px; padding: 15px; border-radius: 8px; background: #f8fafc; }
      .result { font-size: 24px; font-weight: bold; }
      .footer { font-size: 12px; text-align: center; margin-top: 40px; color: #999; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>{{.ScaleName}} Results</h1>
        <p>{{.Date}}</p>
        <p><strong>Notice:</strong> This assessment is indicative and does not replace a professional medical diagnosis.</p>
      </div>
      <div class="section">
        <h2>Patient</h2>
        <p><strong>Name:</strong> {{.Patient.Name}}</p>
        <p><strong>Age:</strong> {{.Patient.Age}}</p>
        <p><strong>Gender:</strong> {{.Patient.Gender}}</p>
        <p><strong>Physician:</strong> {{.Patient.DoctorName}}</p>
      </div>
      <div class="section">
        <h2>Score: {{.Score}}</h2>
        <p class="result">{{.Interpretation}}</p>
      </div>
      <div class="section">
        <h2>Answer Detail</h2>
        {{range .Details}}<p><strong>{{.Prompt}}:</strong> {{.Answer}} ({{.Value}})</p>
        {{end}}
      </div>
      <div class="footer">
        <p>Document generated by DeepLuxMed.mx</p>
        <p>This information is protected by patient-physician confidentiality.</p>
      </div>
    </div>
  </body>
</html>
`))

type reportDetail struct {
	Prompt string
	Answer string
	Value  int
}

type reportData struct {
	ScaleName      string
	Date           string
	Patient        PatientInfo
	Score          int
	Interpretation string
	Details        []reportDetail
}

// BuildReportHTML renders the printable report for one assessment. Question
// order follows the scale definition; unanswered questions are omitted.
func BuildReportHTML(a *Assessment, def *catalog.Definition) (string, error) {
	if def == nil {
		return "", ErrUnknownScale
	}
	data := reportData{
		ScaleName:      def.Name,
		Date:           time.UnixMilli(a.UpdatedAt).UTC().Format("2006-01-02"),
		Patient:        a.Patient,
		Score:          a.Score,
		Interpretation: a.Interpretation,
	}
	for _, q := range def.Questions {
		v, ok := a.Answers[q.ID]
		if !ok {
			continue
		}
		data.Details = append(data.Details, reportDetail{
			Prompt: q.Prompt,
			Answer: q.OptionLabel(v),
			Value:  v,
		})
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type ExportService struct {
	registry *catalog.Registry
	renderer DocumentRenderer
}

func NewExportService(registry *catalog.Registry, renderer DocumentRenderer) *ExportService {
	return &ExportService{registry: registry, renderer: renderer}
}

// ExportOutcome reports what the adapter managed to do. Shared is false with
// a nil error when rendering succeeded but no share destination was
// available; that case is surfaced, not treated as failure.
type ExportOutcome struct {
	URI    string `json:"uri"`
	Shared bool   `json:"shared"`
}

// Export renders the assessment's report and offers it to the share target.
// The assessment itself is never modified.
func (s *ExportService) Export(a *Assessment) (*ExportOutcome, error) {
	def := s.registry.Get(a.ScaleID)
	html, err := BuildReportHTML(a, def)
	if err != nil {
		return nil, err
	}
	uri, err := s.renderer.Render(html)
	if err != nil {
		return nil, err
	}
	out := &ExportOutcome{URI: uri}
	if err := s.renderer.Share(uri, def.Name+" Results"); err != nil {
		if errors.Is(err, ErrNoShareTarget) {
			return out, nil
		}
		return nil, err
	}
	out.Shared = true
	return out, nil
}
