// Package house maps house identifiers to store keys and CSV file tokens.
//
// Two encodings exist in deployed data and neither subsumes the other, so the
// encoding is chosen by configuration.
package house

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ougirez/energy-mock/internal/domain"
)

const (
	EncodingNumeric = "numeric"
	EncodingToken   = "token"

	DefaultPrefix = "202508"
	DefaultMarker = "H"
)

type Locator interface {
	// Resolve returns false when houseID does not follow the encoding.
	Resolve(houseID string) (domain.HouseKey, bool)
	// HouseIDFromFile derives the house identifier from a CSV file name
	// such as "202508_001.csv".
	HouseIDFromFile(fileName string) (string, bool)
	Encoding() string
}

var fileSuffixRe = regexp.MustCompile(`_(\d{3})\.csv$`)

// NewLocator builds the locator for encoding. prefix is used by the numeric
// encoding and marker by the token encoding.
func NewLocator(encoding, prefix, marker string) (Locator, error) {
	switch encoding {
	case "", EncodingNumeric:
		if prefix == "" {
			prefix = DefaultPrefix
		}
		return NewNumericLocator(prefix), nil
	case EncodingToken:
		if marker == "" {
			marker = DefaultMarker
		}
		return NewTokenLocator(marker), nil
	default:
		return nil, fmt.Errorf("unknown house encoding %q", encoding)
	}
}

// NumericLocator handles "<prefix><4 digits>" identifiers, e.g. 2025080001.
type NumericLocator struct {
	prefix string
	re     *regexp.Regexp
}

func NewNumericLocator(prefix string) *NumericLocator {
	return &NumericLocator{
		prefix: prefix,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d{4})$`),
	}
}

func (l *NumericLocator) Resolve(houseID string) (domain.HouseKey, bool) {
	m := l.re.FindStringSubmatch(houseID)
	if m == nil {
		return domain.HouseKey{}, false
	}

	suffix, ok := padToken(m[1], 3)
	if !ok {
		return domain.HouseKey{}, false
	}

	return domain.HouseKey{ID: houseID, FileSuffix: suffix}, true
}

func (l *NumericLocator) HouseIDFromFile(fileName string) (string, bool) {
	m := fileSuffixRe.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}

	num, ok := padToken(m[1], 4)
	if !ok {
		return "", false
	}

	return l.prefix + num, true
}

func (l *NumericLocator) Encoding() string {
	return EncodingNumeric
}

// TokenLocator handles "<marker><digits>" identifiers, e.g. H007.
type TokenLocator struct {
	marker string
	re     *regexp.Regexp
}

func NewTokenLocator(marker string) *TokenLocator {
	return &TokenLocator{
		marker: marker,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(marker) + `(\d+)$`),
	}
}

func (l *TokenLocator) Resolve(houseID string) (domain.HouseKey, bool) {
	m := l.re.FindStringSubmatch(houseID)
	if m == nil {
		return domain.HouseKey{}, false
	}

	suffix, ok := padToken(m[1], 3)
	if !ok {
		return domain.HouseKey{}, false
	}

	return domain.HouseKey{ID: houseID, FileSuffix: suffix}, true
}

func (l *TokenLocator) HouseIDFromFile(fileName string) (string, bool) {
	m := fileSuffixRe.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}

	num, ok := padToken(m[1], 3)
	if !ok {
		return "", false
	}

	return l.marker + num, true
}

func (l *TokenLocator) Encoding() string {
	return EncodingToken
}

// padToken strips leading zeros from digits and left pads the number to width.
// Numbers wider than width cannot name a file and are rejected.
func padToken(digits string, width int) (string, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", false
	}

	s := strconv.Itoa(n)
	if len(s) > width {
		return "", false
	}

	return strings.Repeat("0", width-len(s)) + s, true
}
