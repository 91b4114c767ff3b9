package api

import (
	"sort"
	"sync"

	"github.com/deepluxmed/medscales/internal/services"
)

// DefaultRecentLimit caps the recently-viewed list when no override is given.
const DefaultRecentLimit = 10

type memoryStore struct {
	mu          sync.RWMutex
	patients    map[string]*services.Patient
	assessments map[string]*services.Assessment
	favorites   map[string]struct{}
	recent      []string
	recentLimit int
}

// NewMemoryStore returns an in-process Store. recentLimit <= 0 selects
// DefaultRecentLimit.
func NewMemoryStore(recentLimit int) Store {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &memoryStore{
		patients:    map[string]*services.Patient{},
		assessments: map[string]*services.Assessment{},
		favorites:   map[string]struct{}{},
		recentLimit: recentLimit,
	}
}

func (s *memoryStore) InsertPatient(p *services.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.patients[p.ID]; exists {
		return services.NewConflictError("patient id already exists")
	}
	cp := *p
	s.patients[p.ID] = &cp
	return nil
}

func (s *memoryStore) GetPatient(id string) (*services.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memoryStore) UpdatePatient(p *services.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[p.ID]; !ok {
		return services.NewNotFoundError("patient not found")
	}
	cp := *p
	s.patients[p.ID] = &cp
	return nil
}

// DeletePatient removes the patient and its assessments under one lock hold,
// so no reader can observe the patient gone but its assessments present.
func (s *memoryStore) DeletePatient(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return 0, services.NewNotFoundError("patient not found")
	}
	delete(s.patients, id)
	removed := 0
	for aid, a := range s.assessments {
		if a.PatientID == id {
			delete(s.assessments, aid)
			removed++
		}
	}
	return removed, nil
}

func (s *memoryStore) ListPatients() ([]*services.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out, nil
}

func (s *memoryStore) InsertAssessment(a *services.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assessments[a.ID]; exists {
		return services.NewConflictError("assessment id already exists")
	}
	s.assessments[a.ID] = copyAssessment(a)
	return nil
}

func (s *memoryStore) GetAssessment(id string) (*services.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return nil, nil
	}
	return copyAssessment(a), nil
}

func (s *memoryStore) UpdateAssessment(a *services.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assessments[a.ID]; !ok {
		return services.NewNotFoundError("assessment not found")
	}
	s.assessments[a.ID] = copyAssessment(a)
	return nil
}

// DeleteAssessment removes the record; deleting an absent id is a no-op.
func (s *memoryStore) DeleteAssessment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assessments, id)
	return nil
}

func (s *memoryStore) ListAssessments() ([]*services.Assessment, error) {
	return s.listAssessments(func(*services.Assessment) bool { return true }), nil
}

func (s *memoryStore) ListAssessmentsByPatient(patientID string) ([]*services.Assessment, error) {
	return s.listAssessments(func(a *services.Assessment) bool { return a.PatientID == patientID }), nil
}

func (s *memoryStore) ListAssessmentsByScale(scaleID string) ([]*services.Assessment, error) {
	return s.listAssessments(func(a *services.Assessment) bool { return a.ScaleID == scaleID }), nil
}

func (s *memoryStore) listAssessments(keep func(*services.Assessment) bool) []*services.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Assessment{}
	for _, a := range s.assessments {
		if keep(a) {
			out = append(out, copyAssessment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out
}

func (s *memoryStore) AddFavorite(scaleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites[scaleID] = struct{}{}
	return nil
}

func (s *memoryStore) RemoveFavorite(scaleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, scaleID)
	return nil
}

func (s *memoryStore) IsFavorite(scaleID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[scaleID]
	return ok, nil
}

func (s *memoryStore) ListFavorites() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memoryStore) TouchRecent(scaleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]string, 0, len(s.recent)+1)
	next = append(next, scaleID)
	for _, id := range s.recent {
		if id != scaleID {
			next = append(next, id)
		}
	}
	if len(next) > s.recentLimit {
		next = next[:s.recentLimit]
	}
	s.recent = next
	return nil
}

func (s *memoryStore) ListRecent() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.recent...), nil
}

func (s *memoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = map[string]*services.Patient{}
	s.assessments = map[string]*services.Assessment{}
	s.favorites = map[string]struct{}{}
	s.recent = nil
	return nil
}

func copyAssessment(a *services.Assessment) *services.Assessment {
	cp := *a
	cp.Answers = a.Answers.Clone()
	return &cp
}
