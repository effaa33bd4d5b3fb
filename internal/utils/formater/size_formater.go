package formater

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func FormatBytes(n uint64) string {
	return humanize.Bytes(n)
}

// ParseGigabytes accepts a bare number of GB or a human size like "20 GB" or "512MB".
func ParseGigabytes(value string) (float64, error) {

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty size")
	}

	if gb, err := strconv.ParseFloat(value, 64); err == nil {
		return gb, nil
	}

	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, errors.Wrap(err, "ParseGigabytes")
	}

	return float64(n) / float64(humanize.GByte), nil
}
