package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScheduleNumber derives a globally unique schedule number from the
// academic year, the enrollment and the creation instant.
// Format: PS-<year8>-<enrollment8>-<unix>
func ScheduleNumber(academicYearID, enrollmentID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("PS-%s-%s-%d", shortID(academicYearID), shortID(enrollmentID), at.Unix())
}

// ReceiptNumber generates the receipt number shared by every transaction of
// one settlement batch.
// Format: RCT-YYYYMMDD-<random8>
func ReceiptNumber(at time.Time) string {
	return fmt.Sprintf("RCT-%s-%s", at.Format("20060102"), shortID(uuid.New()))
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
