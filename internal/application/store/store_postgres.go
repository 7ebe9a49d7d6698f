package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"yojanamitra/internal/application/models"
	"yojanamitra/pkg/platform/sentinel"
	txcontext "yojanamitra/pkg/platform/tx"
)

const uniqueViolation = "23505"

const selectColumns = `id, session_id, scheme_id, scheme_name, applied_on, status, progress,
	amount, reference, documents, timeline, rejection_reason, next_payment`

// Postgres persists applications in the applications table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	_, err := s.insert(ctx, s.execer(ctx), app.SessionID, app, false)
	return err
}

// CreateMissing inserts the applications whose reference the session does not
// hold yet and returns how many were added.
func (s *Postgres) CreateMissing(ctx context.Context, sessionID string, apps []*models.Application) (int, error) {
	added := 0
	err := txcontext.Run(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, app := range apps {
			n, err := s.insert(ctx, tx, sessionID, app, true)
			if err != nil {
				return err
			}
			added += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Postgres) insert(ctx context.Context, exec dbExecutor, sessionID string, app *models.Application, skipExisting bool) (int, error) {
	args, err := insertArgs(sessionID, app)
	if err != nil {
		return 0, err
	}
	query := `
		INSERT INTO applications (
			id, session_id, scheme_id, scheme_name, applied_on, status, progress,
			amount, reference, documents, timeline, rejection_reason, next_payment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if skipExisting {
		query += `
		ON CONFLICT (session_id, reference) DO NOTHING`
	}

	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert application rows affected: %w", err)
	}
	return int(n), nil
}

func insertArgs(sessionID string, app *models.Application) ([]any, error) {
	appliedOn, err := time.Parse(models.DateLayout, app.ApplicationDate)
	if err != nil {
		return nil, fmt.Errorf("parse application date: %w", err)
	}
	docs, timeline, err := encodeLists(app)
	if err != nil {
		return nil, err
	}
	nextPayment, err := nullDate(app.NextPayment)
	if err != nil {
		return nil, err
	}
	return []any{
		app.ID,
		sessionID,
		app.SchemeID,
		app.SchemeName,
		appliedOn,
		string(app.Status),
		app.Progress,
		app.Amount,
		app.Reference,
		docs,
		timeline,
		nullString(app.RejectionReason),
		nextPayment,
	}, nil
}

func (s *Postgres) ListBySession(ctx context.Context, sessionID string, statuses []models.Status) ([]*models.Application, error) {
	filter := pq.StringArray{}
	for _, st := range statuses {
		filter = append(filter, string(st))
	}
	query := `SELECT ` + selectColumns + `
		FROM applications
		WHERE session_id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		ORDER BY seq`

	rows, err := s.execer(ctx).QueryContext(ctx, query, sessionID, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func (s *Postgres) FindByID(ctx context.Context, sessionID string, id uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE session_id = $1 AND id = $2`
	return s.findOne(ctx, s.execer(ctx), query, sessionID, id)
}

// Update locks the row, applies fn and writes back the mutable columns.
func (s *Postgres) Update(ctx context.Context, sessionID string, id uuid.UUID, fn func(*models.Application) error) (*models.Application, error) {
	var updated *models.Application
	err := txcontext.Run(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `SELECT ` + selectColumns + ` FROM applications WHERE session_id = $1 AND id = $2 FOR UPDATE`
		app, err := s.findOne(ctx, tx, query, sessionID, id)
		if err != nil {
			return err
		}
		if err := fn(app); err != nil {
			return err
		}

		docs, timeline, err := encodeLists(app)
		if err != nil {
			return err
		}
		nextPayment, err := nullDate(app.NextPayment)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE applications
			SET status = $3, progress = $4, rejection_reason = $5, next_payment = $6,
				documents = $7, timeline = $8
			WHERE session_id = $1 AND id = $2`,
			sessionID, id,
			string(app.Status), app.Progress, nullString(app.RejectionReason), nextPayment,
			docs, timeline,
		)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		updated = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Postgres) findOne(ctx context.Context, exec dbExecutor, query string, args ...any) (*models.Application, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find application: %w", err)
		}
		return nil, sentinel.ErrNotFound
	}
	return scanApplication(rows)
}

func scanApplication(rows *sql.Rows) (*models.Application, error) {
	var (
		app             models.Application
		appliedOn       time.Time
		status          string
		docs, timeline  []byte
		rejectionReason sql.NullString
		nextPayment     sql.NullTime
	)
	err := rows.Scan(
		&app.ID, &app.SessionID, &app.SchemeID, &app.SchemeName, &appliedOn, &status, &app.Progress,
		&app.Amount, &app.Reference, &docs, &timeline, &rejectionReason, &nextPayment,
	)
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}
	app.ApplicationDate = models.FormatDate(appliedOn)
	app.Status = models.Status(status)
	app.RejectionReason = rejectionReason.String
	if nextPayment.Valid {
		app.NextPayment = models.FormatDate(nextPayment.Time)
	}
	if err := json.Unmarshal(docs, &app.Documents); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	if err := json.Unmarshal(timeline, &app.Timeline); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	if app.Documents == nil {
		app.Documents = []string{}
	}
	return &app, nil
}

func encodeLists(app *models.Application) (string, string, error) {
	docs := app.Documents
	if docs == nil {
		docs = []string{}
	}
	d, err := json.Marshal(docs)
	if err != nil {
		return "", "", fmt.Errorf("encode documents: %w", err)
	}
	t, err := json.Marshal(app.Timeline)
	if err != nil {
		return "", "", fmt.Errorf("encode timeline: %w", err)
	}
	return string(d), string(t), nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullDate(v string) (sql.NullTime, error) {
	if v == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return sql.NullTime{}, fmt.Errorf("parse date %q: %w", v, err)
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
