package repository

import (
	"context"
	"fmt"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// CreateReservation вставляет новую резервацию и возвращает её ID.
func (s *Storage) CreateReservation(ctx context.Context, reservation models.Reservation) (int, error) {
	const op = "storage.CreateReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reservations (parking_id, username, start_date, end_date, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		reservation.ParkingID, reservation.Username, reservation.StartDate,
		reservation.EndDate, reservation.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadReservation возвращает данные резервации по её ID.
func (s *Storage) ReadReservation(ctx context.Context, id int) (*models.Reservation, error) {
	const op = "storage.ReadReservation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, start_date, end_date, status
			  FROM reservations WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Reservation
	if err := row.Scan(&result.ID, &result.ParkingID, &result.Username,
		&result.StartDate, &result.EndDate, &result.Status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListReservationsByUser возвращает список резерваций пользователя с пагинацией.
func (s *Storage) ListReservationsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListReservationsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, start_date, end_date, status
			  FROM reservations
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.ParkingID, &r.Username,
			&r.StartDate, &r.EndDate, &r.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllReservations возвращает список всех резерваций с пагинацией.
func (s *Storage) ListAllReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListAllReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, start_date, end_date, status
			  FROM reservations
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.ParkingID, &r.Username,
			&r.StartDate, &r.EndDate, &r.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListReservationsByParking возвращает список резерваций парковки с пагинацией.
func (s *Storage) ListReservationsByParking(ctx context.Context, parkingID, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListReservationsByParking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, start_date, end_date, status
			  FROM reservations
			  WHERE parking_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, parkingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.ParkingID, &r.Username,
			&r.StartDate, &r.EndDate, &r.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListActiveReservations возвращает резервации парковки в нетерминальных
// статусах. Используется для подсчёта свободных мест на момент времени.
func (s *Storage) ListActiveReservations(ctx context.Context, parkingID int) ([]*models.Reservation, error) {
	const op = "storage.ListActiveReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, parking_id, username, start_date, end_date, status
			  FROM reservations
			  WHERE parking_id = $1 AND status IN ($2, $3)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, parkingID,
		models.ReservationPending, models.ReservationConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.ParkingID, &r.Username,
			&r.StartDate, &r.EndDate, &r.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReservationStatus меняет статус резервации и возвращает
// количество изменённых строк.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdateReservationStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations SET status = $1 WHERE id = $2`
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
