package api

import (
	"fmt"
	"testing"

	"github.com/deepluxmed/medscales/internal/services"
)

func TestMemoryStorePatientCascade(t *testing.T) {
	s := NewMemoryStore(0)
	if err := s.InsertPatient(&services.Patient{ID: "p1", Name: "Jane Roe", CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("InsertPatient: %v", err)
	}
	for i, pid := range []string{"p1", "p1", ""} {
		a := &services.Assessment{ID: fmt.Sprintf("a%d", i), ScaleID: "barthel", PatientID: pid, Answers: services.AnswerMap{}, UpdatedAt: int64(i)}
		if err := s.InsertAssessment(a); err != nil {
			t.Fatalf("InsertAssessment: %v", err)
		}
	}

	removed, err := s.DeletePatient("p1")
	if err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed=%d, want 2", removed)
	}
	left, _ := s.ListAssessments()
	if len(left) != 1 || left[0].PatientID != "" {
		t.Fatalf("left=%v", left)
	}
	if p, _ := s.GetPatient("p1"); p != nil {
		t.Fatal("patient still present after delete")
	}
}

func TestMemoryStoreDeleteMissingPatient(t *testing.T) {
	s := NewMemoryStore(0)
	if _, err := s.DeletePatient("nope"); err == nil {
		t.Fatal("expected not_found")
	}
}

func TestMemoryStoreDeleteAssessmentAbsent(t *testing.T) {
	s := NewMemoryStore(0)
	if err := s.DeleteAssessment("never-existed"); err != nil {
		t.Fatalf("delete of absent id: %v", err)
	}
	a := &services.Assessment{ID: "a1", Answers: services.AnswerMap{}}
	s.InsertAssessment(a)
	s.DeleteAssessment("a1")
	if err := s.DeleteAssessment("a1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStoreListOrdering(t *testing.T) {
	s := NewMemoryStore(0)
	for i := 1; i <= 3; i++ {
		s.InsertAssessment(&services.Assessment{
			ID: fmt.Sprintf("a%d", i), ScaleID: "barthel",
			Answers: services.AnswerMap{}, UpdatedAt: int64(i * 100),
		})
	}
	got, _ := s.ListAssessmentsByScale("barthel")
	if len(got) != 3 || got[0].ID != "a3" || got[2].ID != "a1" {
		t.Fatalf("order=%v", ids(got))
	}
}

func TestMemoryStoreDuplicateInsert(t *testing.T) {
	s := NewMemoryStore(0)
	a := &services.Assessment{ID: "a1", Answers: services.AnswerMap{}}
	s.InsertAssessment(a)
	err := s.InsertAssessment(a)
	se, ok := services.AsServiceError(err)
	if !ok || se.Code != services.ErrorConflict {
		t.Fatalf("err=%v, want conflict", err)
	}
}

func TestMemoryStoreFavorites(t *testing.T) {
	s := NewMemoryStore(0)
	s.AddFavorite("barthel")
	s.AddFavorite("barthel") // idempotent
	if fav, _ := s.IsFavorite("barthel"); !fav {
		t.Fatal("favorite not recorded")
	}
	favs, _ := s.ListFavorites()
	if len(favs) != 1 || favs[0] != "barthel" {
		t.Fatalf("favs=%v", favs)
	}
	s.RemoveFavorite("barthel")
	if fav, _ := s.IsFavorite("barthel"); fav {
		t.Fatal("favorite survived removal")
	}
}

func TestMemoryStoreRecentDedupAndCap(t *testing.T) {
	s := NewMemoryStore(3)
	for _, id := range []string{"s1", "s2", "s3", "s1", "s4"} {
		s.TouchRecent(id)
	}
	got, _ := s.ListRecent()
	want := []string{"s4", "s1", "s3"}
	if len(got) != len(want) {
		t.Fatalf("recent=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recent=%v, want %v", got, want)
		}
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore(0)
	s.InsertPatient(&services.Patient{ID: "p1"})
	s.InsertAssessment(&services.Assessment{ID: "a1", Answers: services.AnswerMap{}})
	s.AddFavorite("barthel")
	s.TouchRecent("barthel")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	ps, _ := s.ListPatients()
	as, _ := s.ListAssessments()
	favs, _ := s.ListFavorites()
	recent, _ := s.ListRecent()
	if len(ps)+len(as)+len(favs)+len(recent) != 0 {
		t.Fatal("Clear left data behind")
	}
}

func TestMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	s := NewMemoryStore(0)
	a := &services.Assessment{ID: "a1", Answers: services.AnswerMap{"comida": 10}}
	s.InsertAssessment(a)
	a.Answers["comida"] = 0

	got, _ := s.GetAssessment("a1")
	if got.Answers["comida"] != 10 {
		t.Fatal("insert did not copy answers")
	}
	got.Answers["comida"] = 0
	again, _ := s.GetAssessment("a1")
	if again.Answers["comida"] != 10 {
		t.Fatal("read handed out live map")
	}
}

func ids(as []*services.Assessment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}
