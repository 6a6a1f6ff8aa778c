package order

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{4}$`)

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1717243200123)

	t.Run("Format", func(t *testing.T) {
		n := GenerateOrderNumber(now)
		require.Regexp(t, orderNumberPattern, n)

		parts := strings.Split(n, "-")
		ms, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
		require.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), ms)
	})

	t.Run("UniqueWithinSameMillisecond", func(t *testing.T) {
		seen := make(map[string]struct{}, 200)
		for i := 0; i < 200; i++ {
			seen[GenerateOrderNumber(now)] = struct{}{}
		}
		// 36^4 suffixes; 200 draws collide with probability well under 2%.
		assert.GreaterOrEqual(t, len(seen), 198)
	})
}
