package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// EnrollmentRepository promotes applications inside one transaction and
// writes the enrollment event to the outbox in that same transaction; the
// relay publishes it after commit.
type EnrollmentRepository struct {
	db *sql.DB
}

var _ ports.EnrollmentRepository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Promote(ctx context.Context, app *domain.Application, student *domain.Student, evt ports.StudentEnrolledEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The row lock keeps two concurrent promotions from both inserting a student.
	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM applications WHERE id = $1 FOR UPDATE", app.ID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("application %s: %w", app.ID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if domain.ApplicationStatus(status) != domain.ApplicationApproved {
		return fmt.Errorf("application %s has status %s: %w", app.ID, status, domain.ErrInvalidState)
	}

	placeholders := make([]string, len(studentColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	insert := fmt.Sprintf("INSERT INTO students (%s) VALUES (%s)",
		strings.Join(studentColumns, ", "), strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, insert, studentValues(student)...); err != nil {
		return mapError(err, "student")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM applications WHERE id = $1", app.ID); err != nil {
		return err
	}

	if err := writeOutbox(ctx, tx, ports.StudentEnrolledEventType, evt); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordEnrollment writes an enrollment event to the outbox on its own, for
// promotions that happened outside this database.
func (r *EnrollmentRepository) RecordEnrollment(ctx context.Context, evt ports.StudentEnrolledEvent) error {
	return writeOutbox(ctx, r.db, ports.StudentEnrolledEventType, evt)
}
