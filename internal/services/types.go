package services

// PatientInfo is the patient metadata collected on the assessment form and
// embedded into every saved assessment as a snapshot.
type PatientInfo struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Gender     string `json:"gender"`
	DoctorName string `json:"doctor_name"`
}

// Complete reports whether every form field has been filled in. This is the
// only validation required to leave the form step.
func (p PatientInfo) Complete() bool {
	return p.Name != "" && p.Age != "" && p.Gender != "" && p.DoctorName != ""
}

// Patient is a persisted patient record. Timestamps are epoch milliseconds;
// UpdatedAt is never earlier than CreatedAt.
type Patient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       string `json:"age"`
	Gender    string `json:"gender"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// AnswerMap maps a question id to the chosen option's point value. Partial
// maps are valid while a session is in progress; only answered questions are
// present.
type AnswerMap map[string]int

// Sum adds up every recorded value. Unanswered questions contribute nothing.
func (a AnswerMap) Sum() int {
	total := 0
	for _, v := range a {
		total += v
	}
	return total
}

// Clone returns an independent copy of the map.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Assessment is a persisted, scored questionnaire result. Score always equals
// the sum of Answers at the time of the last save.
type Assessment struct {
	ID             string      `json:"id"`
	ScaleID        string      `json:"scale_id"`
	PatientID      string      `json:"patient_id,omitempty"`
	Patient        PatientInfo `json:"patient"`
	Answers        AnswerMap   `json:"answers"`
	Score          int         `json:"score"`
	Interpretation string      `json:"interpretation"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      int64       `json:"created_at"`
	UpdatedAt      int64       `json:"updated_at"`
}
