package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// CreateAbonnement вставляет новый абонемент и возвращает его ID.
// Недельные слоты сериализуются в JSONB-колонку.
func (s *Storage) CreateAbonnement(ctx context.Context, abonnement models.Abonnement) (int, error) {
	const op = "storage.CreateAbonnement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	slots, err := json.Marshal(abonnement.Slots)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO abonnements (parking_id, username, type, start_date,
			      counter_months, slots, price_cents, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		abonnement.ParkingID, abonnement.Username, abonnement.Type, abonnement.StartDate,
		abonnement.CounterMonths, slots, abonnement.PriceCents, abonnement.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadAbonnement возвращает данные абонемента по его ID.
func (s *Storage) ReadAbonnement(ctx context.Context, id int) (*models.Abonnement, error) {
	const op = "storage.ReadAbonnement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, type, start_date, counter_months,
			      slots, price_cents, status
			  FROM abonnements WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Abonnement
	var slots []byte
	if err := row.Scan(&result.ID, &result.ParkingID, &result.Username, &result.Type,
		&result.StartDate, &result.CounterMonths, &slots, &result.PriceCents,
		&result.Status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(slots, &result.Slots); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListAbonnementsByUser возвращает список абонементов пользователя с пагинацией.
func (s *Storage) ListAbonnementsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Abonnement, error) {
	const op = "storage.ListAbonnementsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, type, start_date, counter_months,
			      slots, price_cents, status
			  FROM abonnements
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanAbonnements(rows, op)
}

// ListAllAbonnements возвращает список всех абонементов с пагинацией.
func (s *Storage) ListAllAbonnements(ctx context.Context, limit, offset int) ([]*models.Abonnement, error) {
	const op = "storage.ListAllAbonnements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, type, start_date, counter_months,
			      slots, price_cents, status
			  FROM abonnements
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanAbonnements(rows, op)
}

// ListAbonnementsByParking возвращает список абонементов парковки с пагинацией.
func (s *Storage) ListAbonnementsByParking(ctx context.Context, parkingID, limit, offset int) ([]*models.Abonnement, error) {
	const op = "storage.ListAbonnementsByParking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, type, start_date, counter_months,
			      slots, price_cents, status
			  FROM abonnements
			  WHERE parking_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, parkingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanAbonnements(rows, op)
}

// ListActiveAbonnements возвращает активные абонементы парковки.
// Используется для подсчёта свободных мест на момент времени.
func (s *Storage) ListActiveAbonnements(ctx context.Context, parkingID int) ([]*models.Abonnement, error) {
	const op = "storage.ListActiveAbonnements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, type, start_date, counter_months,
			      slots, price_cents, status
			  FROM abonnements
			  WHERE parking_id = $1 AND status = $2
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, parkingID, models.AbonnementActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanAbonnements(rows, op)
}

// FindAbonnementsExpiringTomorrow находит активные абонементы,
// срок которых истекает завтра. Используется планировщиком уведомлений.
func (s *Storage) FindAbonnementsExpiringTomorrow(ctx context.Context) ([]*models.Abonnement, error) {
	const op = "storage.FindAbonnementsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, type, start_date, counter_months,
			      slots, price_cents, status
			  FROM abonnements
			  WHERE status = $1
			    AND start_date + make_interval(months => counter_months) = CURRENT_DATE + 1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, models.AbonnementActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanAbonnements(rows, op)
}

// UpdateAbonnementStatus меняет статус абонемента и возвращает
// количество изменённых строк.
func (s *Storage) UpdateAbonnementStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdateAbonnementStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE abonnements SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// MarkExpiredAbonnements переводит в статус expired активные абонементы,
// срок которых уже закончился, и возвращает количество изменённых строк.
func (s *Storage) MarkExpiredAbonnements(ctx context.Context) (int, error) {
	const op = "storage.MarkExpiredAbonnements"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE abonnements SET status = $1
			  WHERE status = $2
			    AND start_date + make_interval(months => counter_months) <= CURRENT_DATE`
	result, err := s.DB.ExecContext(ctx, query, models.AbonnementExpired, models.AbonnementActive)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func scanAbonnements(rows *sql.Rows, op string) ([]*models.Abonnement, error) {
	var result []*models.Abonnement
	for rows.Next() {
		var a models.Abonnement
		var slots []byte
		if err := rows.Scan(&a.ID, &a.ParkingID, &a.Username, &a.Type,
			&a.StartDate, &a.CounterMonths, &slots, &a.PriceCents, &a.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(slots, &a.Slots); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
