package dispatch

import (
	"os"
	"strings"
)

func osPID() int { return os.Getpid() }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
