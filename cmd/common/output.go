package common

import (
	"fmt"
	"os"
)

// PrintErrorf prints an error message to stderr with formatting.
func PrintErrorf(format string, args ...any) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", args...)
	if err != nil {
		return
	}
}
