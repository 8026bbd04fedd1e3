package repository

import (
	"context"

	"gorm.io/gorm"
)

// conn picks the caller's transaction when there is one.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// paginate applies page/limit (1-based) to a query.
func paginate(q *gorm.DB, page, limit int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}
