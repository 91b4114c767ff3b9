package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deepluxmed/medscales/internal/api"
	"github.com/deepluxmed/medscales/internal/services"
)

// SQLiteStore is the durable api.Store. All writes go through the single
// *sql.DB handle; the cascade delete and Clear run inside transactions.
type SQLiteStore struct {
	db          *sql.DB
	recentLimit int
}

func NewSQLiteStore(db *sql.DB, recentLimit int) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if recentLimit <= 0 {
		recentLimit = api.DefaultRecentLimit
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, recentLimit: recentLimit}, nil
}

// Open opens (creating if needed) the database file, applies migrations and
// returns a ready store.
func Open(path string, recentLimit int) (*SQLiteStore, error) {
	handle, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := RunMigrations(handle); err != nil {
		handle.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(handle, recentLimit)
	if err != nil {
		handle.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) InsertPatient(p *services.Patient) error {
	_, err := s.db.Exec(
		`INSERT INTO patients (id, name, age, gender, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Age, p.Gender, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPatient(id string) (*services.Patient, error) {
	row := s.db.QueryRow(`SELECT id, name, age, gender, notes, created_at, updated_at FROM patients WHERE id = ?`, id)
	p := &services.Patient{}
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) UpdatePatient(p *services.Patient) error {
	res, err := s.db.Exec(
		`UPDATE patients SET name = ?, age = ?, gender = ?, notes = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Age, p.Gender, p.Notes, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.NewNotFoundError("patient not found")
	}
	return nil
}

func (s *SQLiteStore) DeletePatient(id string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, services.NewNotFoundError("patient not found")
	}
	res, err = tx.Exec(`DELETE FROM assessments WHERE patient_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete patient assessments: %w", err)
	}
	removed, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit cascade delete: %w", err)
	}
	return int(removed), nil
}

func (s *SQLiteStore) ListPatients() ([]*services.Patient, error) {
	rows, err := s.db.Query(`SELECT id, name, age, gender, notes, created_at, updated_at FROM patients ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	out := []*services.Patient{}
	for rows.Next() {
		p := &services.Patient{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InsertAssessment(a *services.Assessment) error {
	patientJSON, answersJSON, err := encodeAssessment(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO assessments (id, scale_id, patient_id, patient_json, answers_json, score, interpretation, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ScaleID, a.PatientID, patientJSON, answersJSON, a.Score, a.Interpretation, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAssessment(id string) (*services.Assessment, error) {
	row := s.db.QueryRow(
		`SELECT id, scale_id, patient_id, patient_json, answers_json, score, interpretation, notes, created_at, updated_at
		 FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) UpdateAssessment(a *services.Assessment) error {
	patientJSON, answersJSON, err := encodeAssessment(a)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE assessments SET patient_id = ?, patient_json = ?, answers_json = ?, score = ?, interpretation = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		a.PatientID, patientJSON, answersJSON, a.Score, a.Interpretation, a.Notes, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update assessment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.NewNotFoundError("assessment not found")
	}
	return nil
}

// DeleteAssessment removes the record; deleting an absent id is a no-op.
func (s *SQLiteStore) DeleteAssessment(id string) error {
	_, err := s.db.Exec(`DELETE FROM assessments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAssessments() ([]*services.Assessment, error) {
	return s.queryAssessments(
		`SELECT id, scale_id, patient_id, patient_json, answers_json, score, interpretation, notes, created_at, updated_at
		 FROM assessments ORDER BY updated_at DESC`)
}

func (s *SQLiteStore) ListAssessmentsByPatient(patientID string) ([]*services.Assessment, error) {
	return s.queryAssessments(
		`SELECT id, scale_id, patient_id, patient_json, answers_json, score, interpretation, notes, created_at, updated_at
		 FROM assessments WHERE patient_id = ? ORDER BY updated_at DESC`, patientID)
}

func (s *SQLiteStore) ListAssessmentsByScale(scaleID string) ([]*services.Assessment, error) {
	return s.queryAssessments(
		`SELECT id, scale_id, patient_id, patient_json, answers_json, score, interpretation, notes, created_at, updated_at
		 FROM assessments WHERE scale_id = ? ORDER BY updated_at DESC`, scaleID)
}

func (s *SQLiteStore) queryAssessments(query string, args ...any) ([]*services.Assessment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()
	out := []*services.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddFavorite(scaleID string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO favorites (scale_id) VALUES (?)`, scaleID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveFavorite(scaleID string) error {
	_, err := s.db.Exec(`DELETE FROM favorites WHERE scale_id = ?`, scaleID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (s *SQLiteStore) IsFavorite(scaleID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM favorites WHERE scale_id = ?`, scaleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) ListFavorites() ([]string, error) {
	return s.queryIDs(`SELECT scale_id FROM favorites ORDER BY scale_id`)
}

func (s *SQLiteStore) TouchRecent(scaleID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin touch recent: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO recent_scales (scale_id, seq)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_scales))
		 ON CONFLICT(scale_id) DO UPDATE SET seq = (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_scales)`,
		scaleID,
	); err != nil {
		return fmt.Errorf("touch recent: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM recent_scales WHERE scale_id NOT IN (SELECT scale_id FROM recent_scales ORDER BY seq DESC LIMIT ?)`,
		s.recentLimit,
	); err != nil {
		return fmt.Errorf("trim recent: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListRecent() ([]string, error) {
	return s.queryIDs(`SELECT scale_id FROM recent_scales ORDER BY seq DESC`)
}

func (s *SQLiteStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()
	for _, table := range []string{"assessments", "patients", "favorites", "recent_scales"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) queryIDs(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func encodeAssessment(a *services.Assessment) (patientJSON, answersJSON string, err error) {
	pb, err := json.Marshal(a.Patient)
	if err != nil {
		return "", "", fmt.Errorf("encode patient snapshot: %w", err)
	}
	answers := a.Answers
	if answers == nil {
		answers = services.AnswerMap{}
	}
	ab, err := json.Marshal(answers)
	if err != nil {
		return "", "", fmt.Errorf("encode answers: %w", err)
	}
	return string(pb), string(ab), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*services.Assessment, error) {
	a := &services.Assessment{}
	var patientJSON, answersJSON string
	if err := row.Scan(&a.ID, &a.ScaleID, &a.PatientID, &patientJSON, &answersJSON,
		&a.Score, &a.Interpretation, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(patientJSON), &a.Patient); err != nil {
		return nil, fmt.Errorf("decode patient snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return a, nil
}
