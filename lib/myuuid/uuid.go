package myuuid

import "github.com/google/uuid"

// RealUUIDer hands out random v4 uuids.
type RealUUIDer struct{}

func (u RealUUIDer) Create() string {
	return uuid.New().String()
}
