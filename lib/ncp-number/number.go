package ncpnumber

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	serialWidth = 4
	maxSerial   = 9999
)

var numberRe = regexp.MustCompile(`^(\d{2})(\d{2})-(\d{4})$`)

// Prefix returns the YYMM- part shared by all reports of t's month.
func Prefix(t time.Time) string {
	return t.Format("0601") + "-"
}

func Format(prefix string, serial int) string {
	return fmt.Sprintf("%s%0*d", prefix, serialWidth, serial)
}

// Parse splits a business id into its prefix and serial.
func Parse(ncpID string) (prefix string, serial int, err error) {
	m := numberRe.FindStringSubmatch(ncpID)
	if m == nil {
		return "", 0, errors.Errorf("invalid NCP number %q", ncpID)
	}
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return "", 0, errors.Errorf("invalid NCP number %q, month %d", ncpID, month)
	}
	serial, _ = strconv.Atoi(m[3])
	return m[1] + m[2] + "-", serial, nil
}

func IsValid(ncpID string) bool {
	_, _, err := Parse(ncpID)
	return err == nil
}

// Next computes the number following last within prefix. An empty last starts the month at 0001.
func Next(prefix, last string) (string, error) {
	if last == "" {
		return Format(prefix, 1), nil
	}
	lastPrefix, serial, err := Parse(last)
	if err != nil {
		return "", err
	}
	if lastPrefix != prefix {
		return "", errors.Errorf("NCP number %q does not belong to %q", last, prefix)
	}
	if serial >= maxSerial {
		return "", errors.Errorf("NCP serial exhausted for %q", prefix)
	}
	return Format(prefix, serial+1), nil
}
