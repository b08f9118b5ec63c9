package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateRecord is returned by inserts which ignore conflicts when the
// row already exists.
var ErrDuplicateRecord = errors.New("duplicate record")

// ErrInvalidAffectedRows is returned when an update meant to touch a single
// row touched more than one.
var ErrInvalidAffectedRows = errors.New("the number of affected rows is invalid")

func createIgnoreConflict(tx *gorm.DB, data any) error {
	tx = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrDuplicateRecord
	}

	return nil
}

// singleRow converts the result of an update or delete on one row to an
// error. No affected row means the row does not exist or the guard failed.
func singleRow(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return ErrInvalidAffectedRows
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
