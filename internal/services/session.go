package services

import (
	"sync"
	"time"

	"github.com/deepluxmed/medscales/internal/catalog"
)

// Step identifies where an assessment session currently is. Sessions always
// move Form -> Questions -> Results; Reset is the only way back.
type Step string

const (
	StepForm      Step = "form"
	StepQuestions Step = "questions"
	StepResults   Step = "results"
)

// CompletionPolicy controls what NextQuestion requires before the terminal
// advance commits the session.
type CompletionPolicy int

const (
	// CompleteOnLastAdvance commits with whatever answers were recorded;
	// unanswered questions simply score zero.
	CompleteOnLastAdvance CompletionPolicy = iota
	// RequireAllAnswered refuses the terminal advance until every question
	// has an answer.
	RequireAllAnswered
)

// Session is an in-progress assessment. Index is only meaningful during the
// Questions step; AssessmentID is set once the session reaches Results.
type Session struct {
	ID           string      `json:"id"`
	ScaleID      string      `json:"scale_id"`
	Step         Step        `json:"step"`
	Patient      PatientInfo `json:"patient"`
	Answers      AnswerMap   `json:"answers"`
	Index        int         `json:"index"`
	AssessmentID string      `json:"assessment_id,omitempty"`
	Result       *Result     `json:"result,omitempty"`
	StartedAt    int64       `json:"started_at"`
	UpdatedAt    int64       `json:"updated_at"`
}

// AssessmentSaver commits a finished session as a persisted assessment.
type AssessmentSaver interface {
	Create(scaleID string, patient PatientInfo, answers AnswerMap, notes string) (*Assessment, error)
}

type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*Session
	registry *catalog.Registry
	saver    AssessmentSaver
	policy   CompletionPolicy
	now      func() time.Time
	idGen    func() string
}

func NewSessionService(registry *catalog.Registry, saver AssessmentSaver) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		registry: registry,
		saver:    saver,
		policy:   CompleteOnLastAdvance,
		now:      time.Now,
		idGen:    func() string { return shortID(12) },
	}
}

// SetCompletionPolicy replaces the default permissive policy.
func (s *SessionService) SetCompletionPolicy(p CompletionPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
}

// Start opens a new session on the Form step for the given scale.
func (s *SessionService) Start(scaleID string) (*Session, error) {
	def := s.registry.Get(scaleID)
	if def == nil {
		return nil, NewNotFoundError("scale not found")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UnixMilli()
	sess := &Session{
		ID:        s.idGen(),
		ScaleID:   def.ID,
		Step:      StepForm,
		Answers:   AnswerMap{},
		StartedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns a snapshot of the session so callers cannot mutate live state.
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	return snapshot(sess), nil
}

// UpdatePatient merges non-empty fields into the session's patient form.
// Only valid while the session is on the Form step.
func (s *SessionService) UpdatePatient(id string, patch PatientInfo) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	if sess.Step != StepForm {
		return nil, NewConflictError("session is past the form step")
	}
	if patch.Name != "" {
		sess.Patient.Name = patch.Name
	}
	if patch.Age != "" {
		sess.Patient.Age = patch.Age
	}
	if patch.Gender != "" {
		sess.Patient.Gender = patch.Gender
	}
	if patch.DoctorName != "" {
		sess.Patient.DoctorName = patch.DoctorName
	}
	sess.UpdatedAt = s.now().UnixMilli()
	return snapshot(sess), nil
}

// BeginQuestions moves the session from the Form step to the first question.
// The patient form must be filled in completely.
func (s *SessionService) BeginQuestions(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	if sess.Step != StepForm {
		return nil, NewConflictError("session is not on the form step")
	}
	if !sess.Patient.Complete() {
		return nil, NewInvalidError("patient form is incomplete")
	}
	sess.Step = StepQuestions
	sess.Index = 0
	sess.UpdatedAt = s.now().UnixMilli()
	return snapshot(sess), nil
}

// RecordAnswer stores the chosen option value for a question. Re-answering a
// question overwrites the previous value.
func (s *SessionService) RecordAnswer(id, questionID string, value int) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	if sess.Step != StepQuestions {
		return nil, NewConflictError("session is not on the questions step")
	}
	def := s.registry.Get(sess.ScaleID)
	q := def.Question(questionID)
	if q == nil {
		return nil, NewInvalidError("unknown question id")
	}
	if !validOption(q, value) {
		return nil, NewInvalidError("value does not match any option")
	}
	sess.Answers[questionID] = value
	sess.UpdatedAt = s.now().UnixMilli()
	return snapshot(sess), nil
}

// NextQuestion advances to the next question; skipped questions simply stay
// unanswered and score zero. Advancing past the last question completes the
// session: the answers are scored, the assessment is persisted, and the
// session moves to Results.
func (s *SessionService) NextQuestion(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	if sess.Step != StepQuestions {
		return nil, NewConflictError("session is not on the questions step")
	}
	def := s.registry.Get(sess.ScaleID)
	if sess.Index < len(def.Questions)-1 {
		sess.Index++
		sess.UpdatedAt = s.now().UnixMilli()
		return snapshot(sess), nil
	}
	if s.policy == RequireAllAnswered && len(sess.Answers) < len(def.Questions) {
		return nil, NewInvalidError("all questions must be answered")
	}
	res, err := Score(sess.ScaleID, sess.Answers)
	if err != nil {
		return nil, err
	}
	saved, err := s.saver.Create(sess.ScaleID, sess.Patient, sess.Answers.Clone(), "")
	if err != nil {
		return nil, err
	}
	sess.Step = StepResults
	sess.Result = &res
	sess.AssessmentID = saved.ID
	sess.UpdatedAt = s.now().UnixMilli()
	return snapshot(sess), nil
}

// PrevQuestion steps back one question. On the first question it returns the
// session unchanged rather than erroring, matching back-button behaviour.
func (s *SessionService) PrevQuestion(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	if sess.Step != StepQuestions {
		return nil, NewConflictError("session is not on the questions step")
	}
	if sess.Index > 0 {
		sess.Index--
		sess.UpdatedAt = s.now().UnixMilli()
	}
	return snapshot(sess), nil
}

// Reset returns the session to a blank Form step. Answers, patient fields,
// progress and any prior result are discarded; the session id survives so a
// retake stays addressable.
func (s *SessionService) Reset(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session not found")
	}
	sess.Step = StepForm
	sess.Patient = PatientInfo{}
	sess.Answers = AnswerMap{}
	sess.Index = 0
	sess.Result = nil
	sess.AssessmentID = ""
	sess.UpdatedAt = s.now().UnixMilli()
	return snapshot(sess), nil
}

func validOption(q *catalog.Question, value int) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func snapshot(sess *Session) *Session {
	cp := *sess
	cp.Answers = sess.Answers.Clone()
	if sess.Result != nil {
		r := *sess.Result
		cp.Result = &r
	}
	return &cp
}
