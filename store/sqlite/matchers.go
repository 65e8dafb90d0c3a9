package sqlite

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// This file contains matchers to be used with DATA-DOG/go-sqlmock.

// AnyID is a DATA-DOG/go-sqlmock compatible matcher used for matching against
// any store-generated entity ID that is encoded as a string, byte array, or
// directly as a uuid.UUID.
type AnyID struct{}

func (m AnyID) Match(v driver.Value) bool {
	strUUID, ok := v.(string)
	if ok {
		_, err := uuid.Parse(strUUID)
		return err == nil
	}

	bUUID, ok := v.([]byte)
	if ok {
		_, err := uuid.FromBytes(bUUID)
		return err == nil
	}

	_, ok = v.(uuid.UUID)
	return ok
}
