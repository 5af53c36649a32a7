package utils

import (
	"log"

	"github.com/google/uuid"
)

// GenerateID returns a new UUID v4 string, used for workspace revision ids.
func GenerateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Printf("Failed to generate UUID: %v", err)
		return ""
	}
	return id.String()
}

// IsValidUUID reports whether u parses as a UUID.
func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}
