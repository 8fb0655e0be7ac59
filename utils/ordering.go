package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder       = errors.New("reorder list is empty")
	ErrDuplicateOrderID = errors.New("reorder list contains an item twice")
	ErrInvalidOrder     = errors.New("orders must be unique positive numbers")
	ErrUnknownOrderItem = errors.New("reorder list references items outside the target list")
)

// OrderUpdate is one row of a drag-and-drop reorder batch
type OrderUpdate struct {
	ID      uint
	Order   int
	Section string
}

// NormalizeOrder recomputes a 1-based order from slice position
func NormalizeOrder(items []OrderUpdate) []OrderUpdate {
	out := make([]OrderUpdate, len(items))
	for i, item := range items {
		item.Order = i + 1
		out[i] = item
	}
	return out
}

// PrepareOrder fills missing orders from position (only when none were sent) and validates the batch
func PrepareOrder(items []OrderUpdate) ([]OrderUpdate, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	allZero := true
	for _, item := range items {
		if item.Order != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		items = NormalizeOrder(items)
	}

	seenIDs := make(map[uint]bool, len(items))
	seenOrders := make(map[int]bool, len(items))
	for _, item := range items {
		if seenIDs[item.ID] {
			return nil, ErrDuplicateOrderID
		}
		seenIDs[item.ID] = true
		if item.Order < 1 || seenOrders[item.Order] {
			return nil, ErrInvalidOrder
		}
		seenOrders[item.Order] = true
	}
	return items, nil
}

// PersistOrder writes the batch in one transaction. Rows first move to temporary negative orders so the
// (scope, sort_order) unique index never sees two rows with the same order mid-update.
// scope restricts the rows that may be touched, e.g. {"module_id": 3}.
func PersistOrder(db *gorm.DB, model interface{}, scope map[string]interface{}, items []OrderUpdate, withSection bool) error {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		q := tx.Model(model).Where("id IN ?", ids)
		if len(scope) > 0 {
			q = q.Where(scope)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return ErrUnknownOrderItem
		}

		for i, item := range items {
			if err := tx.Model(model).Where("id = ?", item.ID).Update("sort_order", -(i + 1)).Error; err != nil {
				return fmt.Errorf("stage order for %d: %w", item.ID, err)
			}
		}

		for _, item := range items {
			cols := map[string]interface{}{"sort_order": item.Order}
			if withSection && item.Section != "" {
				cols["section"] = item.Section
			}
			if err := tx.Model(model).Where("id = ?", item.ID).Updates(cols).Error; err != nil {
				return fmt.Errorf("write order for %d: %w", item.ID, err)
			}
		}
		return nil
	})
}

// NextOrder returns max(sort_order)+1 within scope
func NextOrder(db *gorm.DB, model interface{}, scope map[string]interface{}) (int, error) {
	var maxOrder int
	q := db.Model(model)
	if len(scope) > 0 {
		q = q.Where(scope)
	}
	if err := q.Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

// OrderErrorStatus maps a reorder failure onto an HTTP status; ok is false for errors it does not know
func OrderErrorStatus(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrDuplicateOrderID), errors.Is(err, ErrInvalidOrder):
		return fiber.StatusBadRequest, err.Error(), true
	case errors.Is(err, ErrUnknownOrderItem):
		return fiber.StatusNotFound, err.Error(), true
	}
	return 0, "", false
}

