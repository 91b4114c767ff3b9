package services

import "time"

type AssessmentStore interface {
	InsertAssessment(a *Assessment) error
	GetAssessment(id string) (*Assessment, error)
	UpdateAssessment(a *Assessment) error
	// DeleteAssessment is a no-op when the id does not exist.
	DeleteAssessment(id string) error
	// List results are ordered by UpdatedAt descending.
	ListAssessments() ([]*Assessment, error)
	ListAssessmentsByPatient(patientID string) ([]*Assessment, error)
	ListAssessmentsByScale(scaleID string) ([]*Assessment, error)
}

type AssessmentService struct {
	store AssessmentStore
	now   func() time.Time
	idGen func() string
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{
		store: store,
		now:   time.Now,
		idGen: func() string { return shortID(12) },
	}
}

// Create persists a new scored assessment. The score and interpretation are
// always recomputed from the answers here, so a stored record can never carry
// a total that disagrees with its answer map.
func (s *AssessmentService) Create(scaleID string, patient PatientInfo, answers AnswerMap, notes string) (*Assessment, error) {
	res, err := Score(scaleID, answers)
	if err != nil {
		return nil, NewInvalidError("cannot score scale " + scaleID)
	}
	now := s.now().UnixMilli()
	a := &Assessment{
		ID:             s.idGen(),
		ScaleID:        scaleID,
		Patient:        patient,
		Answers:        answers.Clone(),
		Score:          res.Total,
		Interpretation: res.Interpretation,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// AttachPatient links an assessment to a stored patient record.
func (s *AssessmentService) AttachPatient(id, patientID string) (*Assessment, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	a.PatientID = patientID
	a.UpdatedAt = s.now().UnixMilli()
	if err := s.store.UpdateAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAnswers replaces the answer map of an existing assessment and
// rescores it in the same save.
func (s *AssessmentService) UpdateAnswers(id string, answers AnswerMap) (*Assessment, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	res, err := Score(a.ScaleID, answers)
	if err != nil {
		return nil, NewInvalidError("cannot score scale " + a.ScaleID)
	}
	a.Answers = answers.Clone()
	a.Score = res.Total
	a.Interpretation = res.Interpretation
	a.UpdatedAt = s.now().UnixMilli()
	if err := s.store.UpdateAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) Get(id string) (*Assessment, error) {
	a, err := s.store.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("assessment not found")
	}
	return a, nil
}

// Delete removes the assessment. Deleting an id that does not exist is not
// an error.
func (s *AssessmentService) Delete(id string) error {
	return s.store.DeleteAssessment(id)
}

func (s *AssessmentService) List() ([]*Assessment, error) {
	return s.store.ListAssessments()
}

func (s *AssessmentService) ListByPatient(patientID string) ([]*Assessment, error) {
	return s.store.ListAssessmentsByPatient(patientID)
}

func (s *AssessmentService) ListByScale(scaleID string) ([]*Assessment, error) {
	return s.store.ListAssessmentsByScale(scaleID)
}
