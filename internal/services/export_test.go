package services

import (
	"encoding/csv"
	"strings"
	"testing"
)

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(b)))
	return r.ReadAll()
}

func sampleAssessments() []*Assessment {
	return []*Assessment{
		{
			ID:      "a1",
			ScaleID: "barthel",
			Patient: PatientInfo{Name: "Jane Roe", Age: "74", Gender: "female", DoctorName: "Dr. Smith"},
			Answers: AnswerMap{"comida": 10}, Score: 10,
			Interpretation: "Severe functional disability",
			CreatedAt:      1700000000000, UpdatedAt: 1700000001000,
		},
		{
			ID:      "a2",
			ScaleID: "barthel",
			Patient: PatientInfo{Name: "John Doe", Age: "61", Gender: "male", DoctorName: "Dr. Smith"},
			Answers: AnswerMap{"comida": 10, "lavado": 5}, Score: 15,
			Interpretation: "Severe functional disability",
			CreatedAt:      1700000002000, UpdatedAt: 1700000003000,
		},
	}
}

func TestExportHistoryCSV(t *testing.T) {
	b, err := ExportHistoryCSV(sampleAssessments())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 rows, got %d", len(recs))
	}
	if got := strings.Join(recs[0], ","); got != strings.Join(historyHeader, ",") {
		t.Fatalf("bad header: %s", got)
	}
	if recs[1][0] != "a1" || recs[1][6] != "10" {
		t.Fatalf("row1=%v", recs[1])
	}
	if recs[2][7] != "Severe functional disability" {
		t.Fatalf("row2=%v", recs[2])
	}
	if recs[1][8] != "2023-11-14T22:13:20Z" {
		t.Fatalf("created_at=%s", recs[1][8])
	}
}

func TestExportHistoryCSVEmpty(t *testing.T) {
	b, err := ExportHistoryCSV(nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("want header only, got %d rows", len(recs))
	}
}

func TestExportHistoryXLSX(t *testing.T) {
	b, err := ExportHistoryXLSX(sampleAssessments())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("empty workbook")
	}
	// XLSX files are zip archives
	if b[0] != 'P' || b[1] != 'K' {
		t.Fatalf("not a zip: % x", b[:4])
	}
}
