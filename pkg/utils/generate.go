package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== BOOKING REFERENCE ====================

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateBookingReference creates the human-readable PNR code.
// Format: BK-YYYYMMDD-XXXXX (5 random base36 chars).
func GenerateBookingReference() string {
	datePart := time.Now().Format("20060102")

	var sb strings.Builder
	for i := 0; i < 5; i++ {
		sb.WriteByte(referenceAlphabet[rand.Intn(len(referenceAlphabet))])
	}

	return fmt.Sprintf("BK-%s-%s", datePart, sb.String())
}
