package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceConnect/pkg/psqlbuilder"
)

var technicianColumns = []string{
	"t.id",
	"t.user_id",
	"t.service_id",
	"t.rating",
	"t.verified",
	"t.earnings",
	"u.name",
	"s.name",
}

// Repository справочники: услуги, мастера, пользователи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "base_price").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&service.ID, &service.Name, &service.BasePrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return &service, nil
}

// ListServices возвращает все услуги по имени
func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "base_price").
		From("services").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(&service.ID, &service.Name, &service.BasePrice); err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %w", ErrScanRow, err)
		}
		services = append(services, &service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// GetUser получает пользователя по ID
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "email", "role", "created_at").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUser - build select query: %v", ErrBuildQuery, err)
	}

	var user domain.User
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUser - scan user: %w", ErrScanRow, err)
	}

	return &user, nil
}

// GetTechnician получает мастера по ID
func (r *Repository) GetTechnician(ctx context.Context, id string) (*domain.Technician, error) {
	return r.getTechnician(ctx, "GetTechnician", squirrel.Eq{"t.id": id})
}

// GetTechnicianByUserID получает мастера по ID его пользователя
func (r *Repository) GetTechnicianByUserID(ctx context.Context, userID string) (*domain.Technician, error) {
	return r.getTechnician(ctx, "GetTechnicianByUserID", squirrel.Eq{"t.user_id": userID})
}

// ListTechnicians возвращает мастеров, verified == nil означает всех
func (r *Repository) ListTechnicians(ctx context.Context, verified *bool) ([]*domain.Technician, error) {
	selectBuilder := technicianSelect().OrderBy("u.name ASC", "t.id ASC")
	if verified != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"t.verified": *verified})
	}
	return r.listTechnicians(ctx, "ListTechnicians", selectBuilder)
}

// ListVerifiedTechniciansByService возвращает подтверждённых мастеров услуги
// Порядок: рейтинг по убыванию, затем ID
func (r *Repository) ListVerifiedTechniciansByService(ctx context.Context, serviceID string) ([]*domain.Technician, error) {
	selectBuilder := technicianSelect().
		Where(squirrel.Eq{"t.service_id": serviceID, "t.verified": true}).
		OrderBy("t.rating DESC", "t.id ASC")
	return r.listTechnicians(ctx, "ListVerifiedTechniciansByService", selectBuilder)
}

// SetTechnicianVerified подтверждает или снимает подтверждение мастера
func (r *Repository) SetTechnicianVerified(ctx context.Context, id string, verified bool) error {
	return r.updateTechnician(ctx, "SetTechnicianVerified", id, map[string]interface{}{"verified": verified})
}

// AddTechnicianEarnings увеличивает заработок мастера
func (r *Repository) AddTechnicianEarnings(ctx context.Context, id string, amount float64) error {
	return r.updateTechnician(ctx, "AddTechnicianEarnings", id, map[string]interface{}{
		"earnings": squirrel.Expr("earnings + ?", amount),
	})
}

// SetTechnicianRating сохраняет пересчитанный рейтинг мастера
func (r *Repository) SetTechnicianRating(ctx context.Context, id string, rating float64) error {
	return r.updateTechnician(ctx, "SetTechnicianRating", id, map[string]interface{}{"rating": rating})
}

func technicianSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(technicianColumns...).
		From("technicians t").
		Join("users u ON u.id = t.user_id").
		Join("services s ON s.id = t.service_id")
}

func (r *Repository) getTechnician(ctx context.Context, op string, where squirrel.Eq) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := technicianSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	technician, err := scanTechnician(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan technician: %w", ErrScanRow, op, err)
	}

	return technician, nil
}

func (r *Repository) listTechnicians(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	technicians := make([]*domain.Technician, 0)
	for rows.Next() {
		technician, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		technicians = append(technicians, technician)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return technicians, nil
}

func (r *Repository) updateTechnician(ctx context.Context, op string, id string, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("technicians").
		SetMap(values).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrTechnicianNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTechnician(row rowScanner) (*domain.Technician, error) {
	var technician domain.Technician
	err := row.Scan(
		&technician.ID,
		&technician.UserID,
		&technician.ServiceID,
		&technician.Rating,
		&technician.Verified,
		&technician.Earnings,
		&technician.Name,
		&technician.ServiceName,
	)
	if err != nil {
		return nil, err
	}
	return &technician, nil
}
