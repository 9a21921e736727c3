// Package dateformat converts between the DD/MM/YYYY dates shown to users
// and the YYYY-MM-DD dates the API exchanges.
package dateformat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dmyPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

var monthLength = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsValidDateFormat reports whether s is a real calendar date written as
// DD/MM/YYYY with a year between 1000 and 3000.
func IsValidDateFormat(s string) bool {
	if !dmyPattern.MatchString(s) {
		return false
	}
	parts := strings.Split(s, "/")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	if year < 1000 || year > 3000 || month < 1 || month > 12 {
		return false
	}
	limit := monthLength[month-1]
	if month == 2 && isLeap(year) {
		limit = 29
	}
	return day > 0 && day <= limit
}

func isLeap(year int) bool {
	return year%400 == 0 || (year%100 != 0 && year%4 == 0)
}

// ConvertDMYToYMD turns "5/3/2024" or "05/03/2024" into "2024-03-05".
// Input that does not split into three parts is returned unchanged.
func ConvertDMYToYMD(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0])
}

// ConvertYMDToDMY turns "2024-3-5" or "2024-03-05" into "05/03/2024".
// Input that does not split into three parts is returned unchanged.
func ConvertYMDToDMY(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	return pad2(parts[2]) + "/" + pad2(parts[1]) + "/" + parts[0]
}

// Display renders an API timestamp (RFC 3339 or a bare YYYY-MM-DD) as
// DD/MM/YYYY. Anything else is returned unchanged.
func Display(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("02/01/2006")
	}
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t.Format("02/01/2006")
	}
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return ConvertYMDToDMY(s)
	}
	return s
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
