package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresReservationRepo 는 PostgreSQL을 사용한 예약 리포지토리.
type PostgresReservationRepo struct {
	db *sql.DB
}

// NewPostgresReservationRepo 는 PostgresReservationRepo를 생성한다.
func NewPostgresReservationRepo(db *sql.DB) *PostgresReservationRepo {
	return &PostgresReservationRepo{db: db}
}

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	rsv := &model.Reservation{}
	err := row.Scan(&rsv.ID, &rsv.UserID, &rsv.PropertyID, &rsv.GuestName, &rsv.GuestPhone,
		&rsv.CheckInDate, &rsv.CheckOutDate, &rsv.Status, &rsv.BookingSource,
		&rsv.CreatedAt, &rsv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rsv, nil
}

// FindByID 는 예약 ID로 예약을 검색한다. 없으면 nil을 반환한다.
func (r *PostgresReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, property_id, guest_name, guest_phone, check_in_date, check_out_date,
		        status, booking_source, created_at, updated_at
		 FROM reservations
		 WHERE id = $1`,
		id,
	)
	rsv, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return rsv, nil
}

// ListConfirmed 는 확정 상태의 예약만 체크인 날짜 오름차순으로 반환한다.
// propertyID가 nil이 아니면 해당 숙소의 예약으로 한정한다.
func (r *PostgresReservationRepo) ListConfirmed(ctx context.Context, userID string, propertyID *string) ([]*model.Reservation, error) {
	query := `SELECT id, user_id, property_id, guest_name, guest_phone, check_in_date, check_out_date,
	                 status, booking_source, created_at, updated_at
	          FROM reservations
	          WHERE user_id = $1 AND status = 'confirmed'`
	args := []any{userID}
	if propertyID != nil {
		query += ` AND property_id = $2`
		args = append(args, *propertyID)
	}
	query += ` ORDER BY check_in_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []*model.Reservation{}
	for rows.Next() {
		rsv, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, rsv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return reservations, nil
}

// Create 는 예약을 저장한다.
func (r *PostgresReservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (id, user_id, property_id, guest_name, guest_phone,
		                           check_in_date, check_out_date, status, booking_source,
		                           created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		reservation.ID, reservation.UserID, reservation.PropertyID, reservation.GuestName,
		reservation.GuestPhone, reservation.CheckInDate, reservation.CheckOutDate,
		reservation.Status, reservation.BookingSource, reservation.CreatedAt, reservation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// Update 는 예약을 갱신한다.
func (r *PostgresReservationRepo) Update(ctx context.Context, reservation *model.Reservation) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations
		 SET property_id = $1, guest_name = $2, guest_phone = $3, check_in_date = $4,
		     check_out_date = $5, status = $6, booking_source = $7, updated_at = $8
		 WHERE id = $9`,
		reservation.PropertyID, reservation.GuestName, reservation.GuestPhone,
		reservation.CheckInDate, reservation.CheckOutDate, reservation.Status,
		reservation.BookingSource, reservation.UpdatedAt, reservation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reservation not found: %s", reservation.ID)
	}
	return nil
}

// Delete 는 예약을 삭제한다.
func (r *PostgresReservationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reservation not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ ReservationRepository = (*PostgresReservationRepo)(nil)
