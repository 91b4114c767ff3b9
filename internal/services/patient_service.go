package services

import "time"

type PatientStore interface {
	InsertPatient(p *Patient) error
	GetPatient(id string) (*Patient, error)
	UpdatePatient(p *Patient) error
	// DeletePatient removes the patient and every assessment linked to it in
	// one atomic step, returning the number of assessments removed.
	DeletePatient(id string) (int, error)
	ListPatients() ([]*Patient, error)
}

type PatientService struct {
	store PatientStore
	now   func() time.Time
	idGen func() string
}

func NewPatientService(store PatientStore) *PatientService {
	return &PatientService{
		store: store,
		now:   time.Now,
		idGen: func() string { return shortID(12) },
	}
}

type PatientInput struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Notes  string `json:"notes"`
}

func (s *PatientService) Create(in PatientInput) (*Patient, error) {
	if in.Name == "" {
		return nil, NewInvalidError("patient name is required")
	}
	now := s.now().UnixMilli()
	p := &Patient{
		ID:        s.idGen(),
		Name:      in.Name,
		Age:       in.Age,
		Gender:    in.Gender,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertPatient(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatientService) Get(id string) (*Patient, error) {
	p, err := s.store.GetPatient(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("patient not found")
	}
	return p, nil
}

func (s *PatientService) Update(id string, in PatientInput) (*Patient, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Age != "" {
		p.Age = in.Age
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	if in.Notes != "" {
		p.Notes = in.Notes
	}
	p.UpdatedAt = s.now().UnixMilli()
	if err := s.store.UpdatePatient(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the patient together with every assessment that references
// it. The cascade is a single store operation so a crash can never leave
// orphaned assessments behind.
func (s *PatientService) Delete(id string) (int, error) {
	if _, err := s.Get(id); err != nil {
		return 0, err
	}
	return s.store.DeletePatient(id)
}

func (s *PatientService) List() ([]*Patient, error) {
	return s.store.ListPatients()
}
