package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/huangsam/prtime/internal/contract"
)

// GetMaxTableTitleWidth calculates the maximum width for PR titles in table
// output based on terminal width and table configuration.
func GetMaxTableTitleWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting:
	// Rank + PR + Author + Commits + Sessions + Hours + Label with borders/padding
	baseWidth := 60

	// Add the test hours column with formatting
	if cfg.TestEstimate {
		baseWidth += 12
	}

	// Calculate available space for the title
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable title width
		return 15
	}
	if available > 60 {
		// Maximum title width to prevent overly long titles
		return 60
	}
	return available
}
