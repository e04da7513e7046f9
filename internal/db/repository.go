package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var ErrNotFound = errors.New("submission not found")

const defaultListLimit = 50

// Submission is one stored grading result.
type Submission struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"fileName"`
	WordCount  int       `json:"wordCount"`
	Score      int       `json:"score"`
	Confidence float64   `json:"confidence"`
	Feedback   string    `json:"feedback,omitempty"`
	Source     string    `json:"source,omitempty"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

var submissionColumns = []string{
	"id", "file_name", "word_count", "score", "confidence",
	"feedback", "source", "diagnostic", "timestamp",
}

func (s *Store) insertQuery(sub Submission) sq.InsertBuilder {
	q := s.builder.Insert("submissions").
		Columns("file_name", "word_count", "score", "confidence", "feedback", "source", "diagnostic", "timestamp").
		Values(sub.FileName, sub.WordCount, sub.Score, sub.Confidence, sub.Feedback, sub.Source, sub.Diagnostic, sub.Timestamp.UTC())
	if s.driver == DriverPostgres {
		q = q.Suffix("RETURNING id")
	}
	return q
}

// SaveSubmission inserts sub and returns its id. A zero timestamp is set
// to now.
func (s *Store) SaveSubmission(ctx context.Context, sub Submission) (int64, error) {
	if sub.Timestamp.IsZero() {
		sub.Timestamp = time.Now()
	}
	query, args, err := s.insertQuery(sub).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	if s.driver == DriverPostgres {
		var id int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert submission: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("submission last insert id: %w", err)
	}
	return id, nil
}

// ListSubmissions returns up to limit submissions, newest first.
func (s *Store) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args, err := s.builder.Select(submissionColumns...).
		From("submissions").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (s *Store) GetSubmission(ctx context.Context, id int64) (Submission, error) {
	query, args, err := s.builder.Select(submissionColumns...).
		From("submissions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Submission{}, fmt.Errorf("build get: %w", err)
	}

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return sub, err
}

func (s *Store) CountRows(ctx context.Context) (int, error) {
	query, args, err := s.builder.Select("COUNT(*)").From("submissions").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var (
		sub                          Submission
		wordCount, score             sql.NullInt64
		confidence                   sql.NullFloat64
		feedback, source, diagnostic sql.NullString
		ts                           timestamp
	)
	err := row.Scan(&sub.ID, &sub.FileName, &wordCount, &score, &confidence, &feedback, &source, &diagnostic, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, err
		}
		return Submission{}, fmt.Errorf("scan submission: %w", err)
	}
	sub.WordCount = int(wordCount.Int64)
	sub.Score = int(score.Int64)
	sub.Confidence = confidence.Float64
	sub.Feedback = feedback.String
	sub.Source = source.String
	sub.Diagnostic = diagnostic.String
	sub.Timestamp = ts.t
	return sub, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp accepts the native time values of Postgres and the text forms
// SQLite may hand back.
type timestamp struct {
	t time.Time
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.t = time.Time{}
		return nil
	case time.Time:
		ts.t = v
		return nil
	case []byte:
		return ts.parse(string(v))
	case string:
		return ts.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.t = t
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}
