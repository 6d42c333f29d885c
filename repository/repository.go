// repository.go - Shared persistence helpers

package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps GORM errors onto the package's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// publicUserColumns are the user fields attached to reservations.
var publicUserColumns = []string{"id", "name", "email"}

func selectPublicUser(db *gorm.DB) *gorm.DB {
	return db.Select(publicUserColumns)
}
