package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/pkg/errs"
)

const (
	numberPrefix       = "ORD"
	numberSuffixLength = 9
	base36Alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var numberPattern = regexp.MustCompile(`^ORD-\d{13,}-[0-9A-Z]{9}$`)

// NewNumber builds a human-readable order number: ORD-<unix millis>-<9 random base36 chars>.
// Uniqueness is finally enforced by the unique index on orders.order_number.
func NewNumber(now time.Time) (string, error) {
	alphabetSize := big.NewInt(int64(len(base36Alphabet)))
	var sb strings.Builder
	sb.Grow(numberSuffixLength)
	for range numberSuffixLength {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate order number: %w", err)
		}
		sb.WriteByte(base36Alphabet[n.Int64()])
	}
	return numberPrefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + sb.String(), nil
}

func ValidateNumber(number string) error {
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match %s", number, numberPattern))
	}
	return nil
}
