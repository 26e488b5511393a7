package Store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Fleetbook/Models"
)

// DriverSalary looks up the salary of driver for ym. A miss is not an error.
func (s *Store) DriverSalary(ctx context.Context, driver, ym string) (Models.DriverSalary, bool, error) {
	var salary Models.DriverSalary
	err := s.conn(ctx).
		Where("driver_name = ? AND year_month = ?", driver, ym).
		First(&salary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Models.DriverSalary{}, false, nil
	}
	if err != nil {
		return Models.DriverSalary{}, false, fmt.Errorf("salary of %s in %s: %w", driver, ym, err)
	}
	return salary, true, nil
}

// SalariesForMonth returns every driver's salary for ym by driver name.
func (s *Store) SalariesForMonth(ctx context.Context, ym string) ([]Models.DriverSalary, error) {
	return s.ListSalaries(ctx, ym, "")
}

func (s *Store) ListSalaries(ctx context.Context, ym, driver string) ([]Models.DriverSalary, error) {
	query := s.conn(ctx).Model(&Models.DriverSalary{})
	if ym != "" {
		query = query.Where("year_month = ?", ym)
	}
	if driver != "" {
		query = query.Where("driver_name = ?", driver)
	}

	var salaries []Models.DriverSalary
	if err := query.Order("year_month DESC, driver_name ASC").Find(&salaries).Error; err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	return salaries, nil
}

// UpsertDriverSalary writes the salary keyed by driver and month and
// reloads it.
func (s *Store) UpsertDriverSalary(ctx context.Context, salary *Models.DriverSalary) error {
	return upsertDriverSalary(s.conn(ctx), salary)
}

func upsertDriverSalary(db *gorm.DB, salary *Models.DriverSalary) error {
	err := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "driver_name"}, {Name: "year_month"}},
			DoUpdates: clause.AssignmentColumns([]string{"base_salary", "trip_bonus", "absence_deduction", "updated_at"}),
		}).
		Create(salary).Error
	if err != nil {
		return fmt.Errorf("upsert salary of %s in %s: %w", salary.DriverName, salary.YearMonth, err)
	}
	var stored Models.DriverSalary
	if err := db.Where("driver_name = ? AND year_month = ?", salary.DriverName, salary.YearMonth).First(&stored).Error; err != nil {
		return fmt.Errorf("reload salary of %s in %s: %w", salary.DriverName, salary.YearMonth, err)
	}
	*salary = stored
	return nil
}

func (s *Store) DeleteDriverSalary(ctx context.Context, driver, ym string) error {
	result := s.conn(ctx).
		Where("driver_name = ? AND year_month = ?", driver, ym).
		Delete(&Models.DriverSalary{})
	if result.Error != nil {
		return fmt.Errorf("delete salary of %s in %s: %w", driver, ym, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("salary of %s in %s: %w", driver, ym, ErrNotFound)
	}
	return nil
}
