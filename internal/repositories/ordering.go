package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderUpdate moves one row of an ordered collection.
type OrderUpdate struct {
	ID    uuid.UUID
	Order int
}

const orderColumn = `"order"`

// maxOrder returns the highest order in a page collection, -1 when empty.
func maxOrder(ctx context.Context, db *gorm.DB, model interface{}, pageID uuid.UUID) (int, error) {
	var max int
	row := db.WithContext(ctx).
		Model(model).
		Where("page_id = ?", pageID).
		Select("COALESCE(MAX(" + orderColumn + "), -1)").
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// countInPage counts how many of ids belong to the page.
func countInPage(ctx context.Context, db *gorm.DB, model interface{}, pageID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := db.WithContext(ctx).
		Model(model).
		Where("page_id = ? AND id IN ?", pageID, ids).
		Count(&n).Error
	return n, err
}

var errReorderMismatch = errors.New("reorder row outside page")

// reorder applies every move in one transaction. Each statement is scoped by
// page, so a foreign id never updates and rolls the batch back.
func reorder(ctx context.Context, db *gorm.DB, model interface{}, pageID uuid.UUID, items []OrderUpdate) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(model).
				Where("id = ? AND page_id = ?", item.ID, pageID).
				Update("order", item.Order)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errReorderMismatch
			}
		}
		return nil
	})
}

// IsReorderMismatch reports a reorder batch rejected because a row was outside the page.
func IsReorderMismatch(err error) bool {
	return errors.Is(err, errReorderMismatch)
}

// ownedPageIDs selects the ids of pages owned by userID, for use as a subquery.
func ownedPageIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Table("pages").Select("id").Where("user_id = ?", userID)
}

func firstOrNil[T any](err error, v *T) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}
