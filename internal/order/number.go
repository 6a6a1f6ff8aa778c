package order

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber returns ORD-<base36 unix millis>-<4 random base36 chars>,
// all upper case.
func GenerateOrderNumber(now time.Time) string {
	var b strings.Builder
	b.WriteString("ORD-")
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	b.WriteByte('-')

	max := big.NewInt(int64(len(numberAlphabet)))
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			n = big.NewInt((now.UnixNano() >> (i * 5)) % int64(len(numberAlphabet)))
		}
		b.WriteByte(numberAlphabet[n.Int64()])
	}
	return b.String()
}
