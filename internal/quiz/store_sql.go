package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore implements ContentStore and AttemptLedger over database/sql
// (sqlite or postgres). Attempt uniqueness is enforced by the
// quiz_attempts_once_per_day unique index, so concurrent writers across
// processes still commit at most one record per key.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

var (
	_ ContentStore  = (*SQLStore)(nil)
	_ AttemptLedger = (*SQLStore)(nil)
)

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	tags, err := json.Marshal(tagsOrEmpty(q.Tags))
	if err != nil {
		return err
	}
	key, err := json.Marshal(struct {
		AnswerKey
		Options []string `json:"options,omitempty"`
	}{q.Key, q.Options})
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions
		(id,question_text,question_type,difficulty,explanation,tags_json,points,answer_key_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
		  question_text=EXCLUDED.question_text, question_type=EXCLUDED.question_type,
		  difficulty=EXCLUDED.difficulty, explanation=EXCLUDED.explanation,
		  tags_json=EXCLUDED.tags_json, points=EXCLUDED.points,
		  answer_key_json=EXCLUDED.answer_key_json`,
		q.ID, q.Text, string(q.Type), string(q.Difficulty), q.Explanation,
		string(tags), q.Points, string(key), q.CreatedAt.Unix())
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,question_text,question_type,difficulty,explanation,tags_json,points,answer_key_json,created_at
		FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrQuestionNotFound
	}
	return q, err
}

func (s *SQLStore) GetQuestions(ctx context.Context, ids []string) ([]Question, error) {
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.GetQuestion(ctx, id)
		if errors.Is(err, ErrQuestionNotFound) {
			continue // stale reference: drop that question, keep the quiz
		}
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanQuestion(row rowScanner) (Question, error) {
	var q Question
	var typ, diff, tagsJSON, keyJSON string
	var explanation sql.NullString
	var createdAt int64
	if err := row.Scan(&q.ID, &q.Text, &typ, &diff, &explanation, &tagsJSON, &q.Points, &keyJSON, &createdAt); err != nil {
		return Question{}, err
	}
	q.Type = QuestionType(typ)
	q.Difficulty = Difficulty(diff)
	q.Explanation = explanation.String
	q.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(tagsJSON), &q.Tags); err != nil {
		return Question{}, err
	}
	var key struct {
		AnswerKey
		Options []string `json:"options,omitempty"`
	}
	if err := json.Unmarshal([]byte(keyJSON), &key); err != nil {
		return Question{}, err
	}
	q.Key = key.AnswerKey
	q.Options = key.Options
	return q, nil
}

func (s *SQLStore) PutQuiz(ctx context.Context, qz Quiz) error {
	tags, err := json.Marshal(tagsOrEmpty(qz.Tags))
	if err != nil {
		return err
	}
	qids, err := json.Marshal(qz.QuestionIDs)
	if err != nil {
		return err
	}
	var limit any
	if qz.TimeLimitMin != nil {
		limit = *qz.TimeLimitMin
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes
		(id,title,description,time_limit_min,passing_score,is_daily,is_active,tags_json,question_ids_json,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, description=EXCLUDED.description,
		  time_limit_min=EXCLUDED.time_limit_min, passing_score=EXCLUDED.passing_score,
		  is_daily=EXCLUDED.is_daily, is_active=EXCLUDED.is_active,
		  tags_json=EXCLUDED.tags_json, question_ids_json=EXCLUDED.question_ids_json`,
		qz.ID, qz.Title, qz.Description, limit, qz.PassingScore, qz.IsDaily, qz.IsActive,
		string(tags), string(qids), qz.CreatedBy, qz.CreatedAt.Unix())
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,time_limit_min,passing_score,is_daily,is_active,tags_json,question_ids_json,created_by,created_at
		FROM quizzes WHERE id=$1`, id)
	qz, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrQuizNotFound
	}
	return qz, err
}

func (s *SQLStore) ListDailyQuizzes(ctx context.Context) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,description,time_limit_min,passing_score,is_daily,is_active,tags_json,question_ids_json,created_by,created_at
		FROM quizzes WHERE is_daily = TRUE AND is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Quiz{}
	for rows.Next() {
		qz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, qz)
	}
	return out, rows.Err()
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var qz Quiz
	var desc sql.NullString
	var limit sql.NullInt64
	var tagsJSON, qidsJSON string
	var createdAt int64
	if err := row.Scan(&qz.ID, &qz.Title, &desc, &limit, &qz.PassingScore, &qz.IsDaily, &qz.IsActive, &tagsJSON, &qidsJSON, &qz.CreatedBy, &createdAt); err != nil {
		return Quiz{}, err
	}
	qz.Description = desc.String
	if limit.Valid {
		v := int(limit.Int64)
		qz.TimeLimitMin = &v
	}
	qz.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(tagsJSON), &qz.Tags); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qidsJSON), &qz.QuestionIDs); err != nil {
		return Quiz{}, err
	}
	return qz, nil
}

func (s *SQLStore) HasAttempted(ctx context.Context, userID, quizID, day string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2 AND attempt_day=$3`,
		userID, quizID, day).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) RecordAttempt(ctx context.Context, rec AttemptRecord) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return err
	}
	var taken any
	if rec.TimeTakenSec != nil {
		taken = *rec.TimeTakenSec
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO quiz_attempts
		(id,user_id,quiz_id,attempt_day,score,points_earned,total_points,quiz_total_points,passed,time_taken_sec,submitted_at,answers_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (user_id,quiz_id,attempt_day) DO NOTHING`,
		rec.ID, rec.UserID, rec.QuizID, rec.Day, rec.Score, rec.PointsEarned,
		rec.TotalPoints, rec.QuizTotalPoints, rec.Passed, taken, rec.SubmittedAt.Unix(), string(answers))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAttemptExists
	}
	return nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, userID, quizID, day string) (AttemptRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,user_id,quiz_id,attempt_day,score,points_earned,total_points,quiz_total_points,passed,time_taken_sec,submitted_at,answers_json
		FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2 AND attempt_day=$3`,
		userID, quizID, day)
	rec, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AttemptRecord{}, ErrAttemptNotFound
	}
	return rec, err
}

func (s *SQLStore) ListAttempts(ctx context.Context, userID string, limit int) ([]AttemptRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,user_id,quiz_id,attempt_day,score,points_earned,total_points,quiz_total_points,passed,time_taken_sec,submitted_at,answers_json
		FROM quiz_attempts WHERE user_id=$1 ORDER BY submitted_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AttemptRecord{}
	for rows.Next() {
		rec, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanAttempt(row rowScanner) (AttemptRecord, error) {
	var rec AttemptRecord
	var taken sql.NullInt64
	var submittedAt int64
	var answersJSON string
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.QuizID, &rec.Day, &rec.Score, &rec.PointsEarned,
		&rec.TotalPoints, &rec.QuizTotalPoints, &rec.Passed, &taken, &submittedAt, &answersJSON); err != nil {
		return AttemptRecord{}, err
	}
	if taken.Valid {
		v := int(taken.Int64)
		rec.TimeTakenSec = &v
	}
	rec.SubmittedAt = time.Unix(submittedAt, 0).UTC()
	if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
		return AttemptRecord{}, err
	}
	return rec, nil
}
