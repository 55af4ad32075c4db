package utils

import (
	"fmt"
	"strings"
)

// MemberNumber derives the human-facing member number from the
// organization id and the per-organization counter, e.g. MBR3F9A1C007.
func MemberNumber(orgID string, counter int32) string {
	compact := strings.ReplaceAll(orgID, "-", "")
	if len(compact) > 6 {
		compact = compact[len(compact)-6:]
	}
	return fmt.Sprintf("MBR%s%03d", strings.ToUpper(compact), counter)
}
