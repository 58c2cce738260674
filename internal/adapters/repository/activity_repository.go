package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// ActivityRepository holds the append-only tables: attendance and ticket comments.
type ActivityRepository struct {
	db *sql.DB
}

var (
	_ ports.AttendanceRepository = (*ActivityRepository)(nil)
	_ ports.CommentRepository    = (*ActivityRepository)(nil)
)

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, rec *domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, subject_kind, subject_id, facility_id, date, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, string(rec.SubjectKind), rec.SubjectID, rec.FacilityID, rec.Date, string(rec.Status), rec.Note, rec.CreatedAt,
	)
	return mapError(err, "attendance")
}

func (r *ActivityRepository) ListByMonth(ctx context.Context, filter ports.ListFilter, kind domain.SubjectKind, month string) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, subject_kind, subject_id, facility_id, to_char(date, 'YYYY-MM-DD'), status, note, created_at
		FROM attendance
		WHERE subject_kind = $1 AND to_char(date, 'YYYY-MM') = $2`
	args := []any{string(kind), month}
	if filter.Scoped() {
		query += " AND facility_id = ANY($3)"
		args = append(args, pq.Array(filter.FacilityIDs))
	}
	query += " ORDER BY date, created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		var rec domain.AttendanceRecord
		var kind, status string
		if err := rows.Scan(&rec.ID, &kind, &rec.SubjectID, &rec.FacilityID, &rec.Date, &status, &rec.Note, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.SubjectKind = domain.SubjectKind(kind)
		rec.Status = domain.AttendanceStatus(status)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *ActivityRepository) AppendComment(ctx context.Context, c *domain.TicketComment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ticket_comments (id, ticket_id, user_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.TicketID, c.UserID, c.Comment, c.CreatedAt,
	)
	return mapError(err, "comment")
}

func (r *ActivityRepository) ListComments(ctx context.Context, ticketID string) ([]*domain.TicketComment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ticket_id, user_id, comment, created_at
		FROM ticket_comments
		WHERE ticket_id = $1
		ORDER BY created_at, id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.TicketComment, 0)
	for rows.Next() {
		var c domain.TicketComment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
