package brewer

import (
	"fmt"
	"time"
)

// FormatRemaining renders a countdown as M:SS, or :SS under one minute.
func FormatRemaining(remaining time.Duration) string {
	seconds := int(remaining / time.Second)
	if seconds <= 0 {
		return "0:00"
	}
	minutes := seconds / 60
	seconds = seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	}
	return fmt.Sprintf(":%02d", seconds)
}
