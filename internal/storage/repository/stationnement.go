package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// CreateStationnement вставляет открытую стоянку (въезд) и возвращает её ID.
func (s *Storage) CreateStationnement(ctx context.Context, stationnement models.Stationnement) (int, error) {
	const op = "storage.CreateStationnement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO stationnements (parking_id, username, governing_kind,
			      governing_id, started_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		stationnement.ParkingID, stationnement.Username, stationnement.GoverningKind,
		stationnement.GoverningID, stationnement.StartedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadStationnement возвращает данные стоянки по её ID.
func (s *Storage) ReadStationnement(ctx context.Context, id int) (*models.Stationnement, error) {
	const op = "storage.ReadStationnement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, governing_kind, governing_id,
			      started_at, ended_at, amount_cents
			  FROM stationnements WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Stationnement
	var endedAt sql.NullTime
	var amountCents sql.NullInt64
	if err := row.Scan(&result.ID, &result.ParkingID, &result.Username,
		&result.GoverningKind, &result.GoverningID, &result.StartedAt,
		&endedAt, &amountCents); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endedAt.Valid {
		result.EndedAt = &endedAt.Time
	}
	if amountCents.Valid {
		amount := int(amountCents.Int64)
		result.AmountCents = &amount
	}
	return &result, nil
}

// CloseStationnement закрывает стоянку ровно один раз: проставляет момент
// выезда и рассчитанную сумму только если стоянка ещё открыта.
// Возвращает количество изменённых строк; 0 означает, что стоянка
// не найдена или уже закрыта.
func (s *Storage) CloseStationnement(ctx context.Context, id int, endedAt time.Time, amountCents int) (int, error) {
	const op = "storage.CloseStationnement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE stationnements SET ended_at = $1, amount_cents = $2
			  WHERE id = $3 AND ended_at IS NULL`
	result, err := s.DB.ExecContext(ctx, query, endedAt, amountCents, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListStationnementsByUser возвращает список стоянок пользователя с пагинацией.
func (s *Storage) ListStationnementsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Stationnement, error) {
	const op = "storage.ListStationnementsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, governing_kind, governing_id,
			      started_at, ended_at, amount_cents
			  FROM stationnements
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanStationnements(rows, op)
}

// ListAllStationnements возвращает список всех стоянок с пагинацией.
func (s *Storage) ListAllStationnements(ctx context.Context, limit, offset int) ([]*models.Stationnement, error) {
	const op = "storage.ListAllStationnements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, governing_kind, governing_id,
			      started_at, ended_at, amount_cents
			  FROM stationnements
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanStationnements(rows, op)
}

// ListStationnementsByParking возвращает список стоянок парковки с пагинацией.
func (s *Storage) ListStationnementsByParking(ctx context.Context, parkingID, limit, offset int) ([]*models.Stationnement, error) {
	const op = "storage.ListStationnementsByParking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, governing_kind, governing_id,
			      started_at, ended_at, amount_cents
			  FROM stationnements
			  WHERE parking_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, parkingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanStationnements(rows, op)
}

// ListOpenStationnements возвращает открытые стоянки парковки.
// Используется для подсчёта свободных мест на момент времени.
func (s *Storage) ListOpenStationnements(ctx context.Context, parkingID int) ([]*models.Stationnement, error) {
	const op = "storage.ListOpenStationnements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, governing_kind, governing_id,
			      started_at, ended_at, amount_cents
			  FROM stationnements
			  WHERE parking_id = $1 AND ended_at IS NULL
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, parkingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanStationnements(rows, op)
}

// FindOpenStationnementByGoverning возвращает открытую стоянку по её
// управляющей записи, если такая есть. Один абонемент или резервация
// может держать не больше одной открытой стоянки.
func (s *Storage) FindOpenStationnementByGoverning(ctx context.Context, governingKind string, governingID int) (*models.Stationnement, error) {
	const op = "storage.FindOpenStationnementByGoverning"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, governing_kind, governing_id,
			      started_at, ended_at, amount_cents
			  FROM stationnements
			  WHERE governing_kind = $1 AND governing_id = $2 AND ended_at IS NULL`
	row := s.DB.QueryRowContext(ctx, query, governingKind, governingID)

	var result models.Stationnement
	var endedAt sql.NullTime
	var amountCents sql.NullInt64
	if err := row.Scan(&result.ID, &result.ParkingID, &result.Username,
		&result.GoverningKind, &result.GoverningID, &result.StartedAt,
		&endedAt, &amountCents); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endedAt.Valid {
		result.EndedAt = &endedAt.Time
	}
	if amountCents.Valid {
		amount := int(amountCents.Int64)
		result.AmountCents = &amount
	}
	return &result, nil
}

func scanStationnements(rows *sql.Rows, op string) ([]*models.Stationnement, error) {
	var result []*models.Stationnement
	for rows.Next() {
		var st models.Stationnement
		var endedAt sql.NullTime
		var amountCents sql.NullInt64
		if err := rows.Scan(&st.ID, &st.ParkingID, &st.Username,
			&st.GoverningKind, &st.GoverningID, &st.StartedAt,
			&endedAt, &amountCents); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if endedAt.Valid {
			st.EndedAt = &endedAt.Time
		}
		if amountCents.Valid {
			amount := int(amountCents.Int64)
			st.AmountCents = &amount
		}
		result = append(result, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
