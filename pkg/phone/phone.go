// Package phone normalizes telephone numbers to E.164, the form the admin
// API stores them in.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "BF"

var ErrInvalidNumber = errors.New("invalid telephone number")

// Normalize parses raw in region (DefaultRegion when empty) and returns it in
// E.164 form, e.g. "70 00 00 01" -> "+22670000001".
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidNumber
	}
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidNumber, raw, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
