package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

// ContactRepository implements port.ContactRepository using PostgreSQL.
type ContactRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewContactRepository wires a PostgreSQL-backed contact message repository.
func NewContactRepository(exec pgExecutor) *ContactRepository {
	return &ContactRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a contact message.
func (r *ContactRepository) Create(ctx context.Context, message domain.ContactMessage) error {
	stmt, args, err := r.builder.Insert("directory.contact_messages").
		Columns("id", "user_id", "subject", "message", "created_at").
		Values(message.ID, message.UserID, message.Subject, message.Message, message.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert contact message sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

// List returns every contact message, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "subject", "message", "created_at").
		From("directory.contact_messages").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list contact messages sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0)
	for rows.Next() {
		var message domain.ContactMessage
		if err := rows.Scan(&message.ID, &message.UserID, &message.Subject, &message.Message, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}

	return messages, nil
}

// Delete removes a contact message.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.contact_messages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete contact message sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ContactRepository = (*ContactRepository)(nil)
