package computed

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// WordsPerMinute is the reading speed used for estimates.
const WordsPerMinute = 200

// ReadingTime estimates how long body takes to read. Words are runs of
// non-whitespace characters.
func ReadingTime(body string) interfaces.ReadingTime {
	words := len(strings.Fields(body))
	minutes := float64(words) / WordsPerMinute
	return interfaces.ReadingTime{
		Text:    fmt.Sprintf("%d min read", int(math.Ceil(minutes))),
		Minutes: minutes,
		Words:   words,
	}
}
