package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceConnect/pkg/psqlbuilder"
)

// bookingColumns порядок колонок совпадает с порядком в scanBooking
var bookingColumns = []string{
	"id",
	"service_id",
	"customer_id",
	"technician_id",
	"scheduled_at",
	"location",
	"status",
	"rating",
	"review",
	"service_name",
	"customer_name",
	"technician_name",
	"base_price",
	"total_cost",
	"platform_fee",
	"service_fee",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование
// ID генерируется приложением, даты создания и изменения проставляет БД
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"service_id",
			"customer_id",
			"technician_id",
			"scheduled_at",
			"location",
			"status",
			"service_name",
			"customer_name",
			"technician_name",
			"base_price",
			"total_cost",
			"platform_fee",
			"service_fee",
		).
		Values(
			booking.ID,
			booking.ServiceID,
			booking.CustomerID,
			booking.TechnicianID,
			booking.ScheduledAt.UTC(),
			booking.Location,
			booking.Status,
			booking.ServiceName,
			booking.CustomerName,
			booking.TechnicianName,
			booking.BasePrice,
			booking.TotalCost,
			booking.PlatformFee,
			booking.ServiceFee,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List возвращает бронирования по фильтру, сначала новые
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC", "id ASC")

	if filter.ID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"id": *filter.ID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.TechnicianID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"technician_id": *filter.TechnicianID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus переводит бронирование из expected в next (compare-and-swap)
// Если строка есть, но статус уже другой, возвращает ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id string, expected, next domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expected}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, executor, result, id, "UpdateStatus")
}

// UpdateSchedule меняет дату и/или место, пока статус равен expected
// nil-поля не изменяются
func (r *Repository) UpdateSchedule(ctx context.Context, id string, expected domain.BookingStatus, scheduledAt *time.Time, location *string) error {
	if scheduledAt == nil && location == nil {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expected})

	if scheduledAt != nil {
		updateBuilder = updateBuilder.Set("scheduled_at", scheduledAt.UTC())
	}
	if location != nil {
		updateBuilder = updateBuilder.Set("location", *location)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %w", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, executor, result, id, "UpdateSchedule")
}

// SetRating сохраняет оценку завершённого бронирования
// Оценку можно поставить только один раз
func (r *Repository) SetRating(ctx context.Context, id string, rating int, review *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("rating", rating).
		Set("review", review).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusCompleted, "rating": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetRating - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetRating - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetRating - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.IsRated() {
		return ErrAlreadyRated
	}
	return ErrStatusConflict
}

// Stats считает агрегаты для панели администратора
func (r *Repository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(SUM(total_cost) FILTER (WHERE status = 'completed'), 0)",
		"COUNT(*) FILTER (WHERE status = 'pending')",
		"COUNT(*) FILTER (WHERE status IN ('accepted', 'in_progress'))",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COUNT(*) FILTER (WHERE status = 'cancelled')",
	).
		From("bookings").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.BookingStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalRevenue,
		&stats.PendingCount,
		&stats.ActiveCount,
		&stats.CompletedCount,
		&stats.CancelledCount,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - scan stats: %w", ErrScanRow, err)
	}

	return &stats, nil
}

// AverageRatingForTechnician средняя оценка по всем оценённым бронированиям мастера
// Если оценок нет, возвращает 0
func (r *Repository) AverageRatingForTechnician(ctx context.Context, technicianID string) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(ROUND(AVG(rating)::numeric, 2), 0)").
		From("bookings").
		Where(squirrel.Eq{"technician_id": technicianID}).
		Where(squirrel.NotEq{"rating": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: AverageRatingForTechnician - build select query: %v", ErrBuildQuery, err)
	}

	var avg float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return 0, fmt.Errorf("%w: AverageRatingForTechnician - scan: %w", ErrScanRow, err)
	}

	return avg, nil
}

// checkAffected отличает отсутствующую строку от изменившегося статуса
func (r *Repository) checkAffected(ctx context.Context, executor DBExecutor, result sql.Result, id string, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build exists query: %v", ErrBuildQuery, op, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s - check exists: %w", ErrExecQuery, op, err)
	}

	return ErrStatusConflict
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking        domain.Booking
		technicianID   sql.NullString
		technicianName sql.NullString
		rating         sql.NullInt64
		review         sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.CustomerID,
		&technicianID,
		&booking.ScheduledAt,
		&booking.Location,
		&booking.Status,
		&rating,
		&review,
		&booking.ServiceName,
		&booking.CustomerName,
		&technicianName,
		&booking.BasePrice,
		&booking.TotalCost,
		&booking.PlatformFee,
		&booking.ServiceFee,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if technicianID.Valid {
		booking.TechnicianID = &technicianID.String
	}
	if technicianName.Valid {
		booking.TechnicianName = &technicianName.String
	}
	if rating.Valid {
		value := int(rating.Int64)
		booking.Rating = &value
	}
	if review.Valid {
		booking.Review = &review.String
	}
	booking.ScheduledAt = booking.ScheduledAt.UTC()

	return &booking, nil
}
