package flash

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as HH:MM:SS.mmm for display next to a
// running flash. Hours wrap at 24. The value is purely informational and
// carries no control-flow meaning.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000%24,
		ms/60000%60,
		ms/1000%60,
		ms%1000,
	)
}
