package Store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Fleetbook/Models"
)

// TripsBetween returns the trips dated start..end inclusive, by date then id.
func (s *Store) TripsBetween(ctx context.Context, start, end string) ([]Models.Trip, error) {
	var trips []Models.Trip
	err := s.conn(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC, id ASC").
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("trips between %s and %s: %w", start, end, err)
	}
	return trips, nil
}

// TripsForDriverMonth returns one driver's trips in a YYYY-MM month.
func (s *Store) TripsForDriverMonth(ctx context.Context, driver, ym string) ([]Models.Trip, error) {
	first, last := monthBounds(ym)
	var trips []Models.Trip
	err := s.conn(ctx).
		Where("driver_name = ? AND date >= ? AND date <= ?", driver, first, last).
		Order("date ASC, id ASC").
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("trips of %s in %s: %w", driver, ym, err)
	}
	return trips, nil
}

// TripByID loads a trip with its costs in (date, description) order.
func (s *Store) TripByID(ctx context.Context, id uint) (Models.Trip, error) {
	var trip Models.Trip
	err := s.conn(ctx).
		Preload("GeneralCosts", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, description ASC, id ASC")
		}).
		First(&trip, id).Error
	if err != nil {
		return Models.Trip{}, notFound(err, fmt.Sprintf("trip %d", id))
	}
	return trip, nil
}

// CreateTrip registers a trip, the costs paid on it and an optional salary
// adjustment for its driver in a single transaction.
func (s *Store) CreateTrip(ctx context.Context, trip *Models.Trip, costs []Models.GeneralCost, salary *Models.DriverSalary) error {
	tx := s.conn(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Omit("GeneralCosts").Create(trip).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create trip: %w", err)
	}

	for i := range costs {
		costs[i].TripID = &trip.ID
		if err := tx.Create(&costs[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("create cost %q: %w", costs[i].Description, err)
		}
	}
	trip.GeneralCosts = costs

	if salary != nil {
		if err := upsertDriverSalary(tx, salary); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit trip: %w", err)
	}
	return nil
}

// UpdateTrip saves every trip column and, when salary is not nil, the
// driver's salary for the month, in one transaction. Attached costs are left
// untouched.
func (s *Store) UpdateTrip(ctx context.Context, trip *Models.Trip, salary *Models.DriverSalary) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("GeneralCosts").Save(trip).Error; err != nil {
			return fmt.Errorf("update trip %d: %w", trip.ID, err)
		}
		if salary != nil {
			return upsertDriverSalary(tx, salary)
		}
		return nil
	})
}

// DeleteTripCascade deletes a trip and every cost attached to it.
func (s *Store) DeleteTripCascade(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var trip Models.Trip
		if err := tx.First(&trip, id).Error; err != nil {
			return notFound(err, fmt.Sprintf("trip %d", id))
		}
		if err := tx.Where("trip_id = ?", id).Delete(&Models.GeneralCost{}).Error; err != nil {
			return fmt.Errorf("delete costs of trip %d: %w", id, err)
		}
		if err := tx.Delete(&trip).Error; err != nil {
			return fmt.Errorf("delete trip %d: %w", id, err)
		}
		return nil
	})
}
