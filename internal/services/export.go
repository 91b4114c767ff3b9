package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

var historyHeader = []string{
	"assessment_id", "scale_id", "patient_name", "patient_age", "patient_gender",
	"doctor_name", "score", "interpretation", "created_at", "updated_at",
}

// ExportHistoryCSV renders assessment history in long format, one row per
// assessment. Timestamps are formatted RFC3339 in UTC so the file is stable
// regardless of server locale.
func ExportHistoryCSV(assessments []*Assessment) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write(historyHeader)
	for _, a := range assessments {
		rec := []string{
			a.ID,
			a.ScaleID,
			a.Patient.Name,
			a.Patient.Age,
			a.Patient.Gender,
			a.Patient.DoctorName,
			strconv.Itoa(a.Score),
			a.Interpretation,
			formatMillis(a.CreatedAt),
			formatMillis(a.UpdatedAt),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
