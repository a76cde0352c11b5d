package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// CreateParking вставляет новую парковку и возвращает её ID.
// Часы работы и тариф сериализуются в JSONB-колонки.
func (s *Storage) CreateParking(ctx context.Context, parking models.Parking) (int, error) {
	const op = "storage.CreateParking"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	opening, err := json.Marshal(parking.Opening)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	pricing, err := json.Marshal(parking.Plan)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO parkings (owner_username, name, address, capacity, timezone,
			      opening, pricing)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		parking.OwnerUsername, parking.Name, parking.Address, parking.Capacity,
		parking.Timezone, opening, pricing).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadParking возвращает данные парковки по её ID.
func (s *Storage) ReadParking(ctx context.Context, id int) (*models.Parking, error) {
	const op = "storage.ReadParking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_username, name, address, capacity, timezone, opening, pricing
			  FROM parkings WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Parking
	var opening, pricing []byte
	if err := row.Scan(&result.ID, &result.OwnerUsername, &result.Name, &result.Address,
		&result.Capacity, &result.Timezone, &opening, &pricing); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(opening, &result.Opening); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(pricing, &result.Plan); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListParkings возвращает список всех парковок с пагинацией.
func (s *Storage) ListParkings(ctx context.Context, limit, offset int) ([]*models.Parking, error) {
	const op = "storage.ListParkings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_username, name, address, capacity, timezone, opening, pricing
			  FROM parkings
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Parking
	for rows.Next() {
		var p models.Parking
		var opening, pricing []byte
		if err := rows.Scan(&p.ID, &p.OwnerUsername, &p.Name, &p.Address,
			&p.Capacity, &p.Timezone, &opening, &pricing); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(opening, &p.Opening); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(pricing, &p.Plan); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListParkingsByOwner возвращает список парковок владельца с пагинацией.
func (s *Storage) ListParkingsByOwner(ctx context.Context, ownerUsername string, limit, offset int) ([]*models.Parking, error) {
	const op = "storage.ListParkingsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_username, name, address, capacity, timezone, opening, pricing
			  FROM parkings
			  WHERE owner_username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, ownerUsername, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Parking
	for rows.Next() {
		var p models.Parking
		var opening, pricing []byte
		if err := rows.Scan(&p.ID, &p.OwnerUsername, &p.Name, &p.Address,
			&p.Capacity, &p.Timezone, &opening, &pricing); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(opening, &p.Opening); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(pricing, &p.Plan); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateParking обновляет основные атрибуты парковки и возвращает
// количество изменённых строк. Часы работы и тариф меняются отдельными методами.
func (s *Storage) UpdateParking(ctx context.Context, parking models.Parking, id int) (int, error) {
	const op = "storage.UpdateParking"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE parkings
			  SET name = $1, address = $2, capacity = $3, timezone = $4
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		parking.Name, parking.Address, parking.Capacity, parking.Timezone, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReplaceParkingOpening целиком заменяет часы работы парковки
// и возвращает количество изменённых строк.
func (s *Storage) ReplaceParkingOpening(ctx context.Context, id int, parking models.Parking) (int, error) {
	const op = "storage.ReplaceParkingOpening"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	opening, err := json.Marshal(parking.Opening)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE parkings SET opening = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, opening, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReplaceParkingPricing целиком заменяет тариф парковки
// и возвращает количество изменённых строк. Уже рассчитанные счета не пересчитываются.
func (s *Storage) ReplaceParkingPricing(ctx context.Context, id int, parking models.Parking) (int, error) {
	const op = "storage.ReplaceParkingPricing"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pricing, err := json.Marshal(parking.Plan)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE parkings SET pricing = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, pricing, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveParking удаляет парковку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveParking(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveParking"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM parkings WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
