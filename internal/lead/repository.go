package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"salesdesk-be/internal/db"
	"salesdesk-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, int, error)
	Create(ctx context.Context, l *Lead) error
	Update(ctx context.Context, id string, patch Patch) (*Lead, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const leadColumns = `id, brand_name, instagram_handle, platform, date_contacted, reply_status,
	interest_level, demo_sent, status, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	if err := row.Scan(
		&l.ID,
		&l.BrandName,
		&l.InstagramHandle,
		&l.Platform,
		&l.DateContacted,
		&l.ReplyStatus,
		&l.InterestLevel,
		&l.DemoSent,
		&l.Status,
		&l.Notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Lead, error) {
	l, err := scanLead(r.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return l, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Lead, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListLeads"),
	)

	where := ""
	args := []any{}
	argIndex := 1

	if filter.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		log.Error("failed to count leads", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + leadColumns + ` FROM leads` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query leads", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			log.Error("failed to scan lead row", zap.Error(err))
			return nil, 0, err
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *repository) Create(ctx context.Context, l *Lead) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO leads (
			id, brand_name, instagram_handle, platform, date_contacted,
			reply_status, interest_level, demo_sent, status, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`,
		l.ID,
		l.BrandName,
		l.InstagramHandle,
		l.Platform,
		l.DateContacted,
		l.ReplyStatus,
		l.InterestLevel,
		l.DemoSent,
		l.Status,
		l.Notes,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, id string, patch Patch) (*Lead, error) {
	sets := []string{}
	args := []any{}
	argIndex := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.BrandName != nil {
		add("brand_name", *patch.BrandName)
	}
	if patch.InstagramHandleSet {
		add("instagram_handle", patch.InstagramHandle)
	}
	if patch.Platform != nil {
		add("platform", *patch.Platform)
	}
	if patch.DateContactedSet {
		add("date_contacted", patch.DateContacted)
	}
	if patch.ReplyStatusSet {
		add("reply_status", patch.ReplyStatus)
	}
	if patch.InterestLevelSet {
		add("interest_level", patch.InterestLevel)
	}
	if patch.DemoSent != nil {
		add("demo_sent", *patch.DemoSent)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.NotesSet {
		add("notes", patch.Notes)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE leads SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argIndex, leadColumns,
	)
	args = append(args, id)

	l, err := scanLead(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lead %s: %w", id, err)
	}
	return l, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLeadNotFound
	}
	return nil
}
