package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule parameters
var (
	// Mobile numbers are 10 to 15 digits with an optional leading +
	MobilePattern = `^\+?[0-9]{10,15}$`

	PasswordMinLength = 8
	MinimumAge        = 16

	PercentageMin = 0.0
	PercentageMax = 100.0
)

// Maximum stored lengths in characters, matching the column sizes in migrations/
const (
	MaxNameLength   = 255
	MaxEmailLength  = 255
	MaxGenderLength = 32
	MaxCourseLength = 64
	MaxMobileLength = 32

	// bcrypt only accepts passwords up to 72 bytes
	MaxPasswordBytes = 72
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Mobile *regexp.Regexp
}{
	Mobile: regexp.MustCompile(MobilePattern),
}

// semesterLimits holds the maximum semester for courses that have one
var semesterLimits = map[string]int{
	"MBA":   4,
	"B.Sc":  6,
	"B.Com": 6,
}

var validate = validator.New()

var mobileSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// IsEmail reports whether s is a syntactically valid email address
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsMobile reports whether s is a 10-15 digit phone number, ignoring common separators
func IsMobile(s string) bool {
	return CompiledPatterns.Mobile.MatchString(mobileSeparators.Replace(strings.TrimSpace(s)))
}

// IsPercentage reports whether p lies within [0,100]
func IsPercentage(p float64) bool {
	return p >= PercentageMin && p <= PercentageMax
}

// FitsLength reports whether s has at most max characters
func FitsLength(s string, max int) bool {
	return validate.Var(s, fmt.Sprintf("max=%d", max)) == nil
}

// HasCentPrecision reports whether p has at most two decimal places
func HasCentPrecision(p float64) bool {
	return math.Round(p*100)/100 == p
}

// IsStrongPassword reports whether password meets the minimum length
func IsStrongPassword(password string) bool {
	return len([]rune(password)) >= PasswordMinLength
}

// MaxSemesters returns the semester cap for course, if the course has one
func MaxSemesters(course string) (int, bool) {
	limit, ok := semesterLimits[course]
	return limit, ok
}

// AgeAt returns the number of full years elapsed between dob and now
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the calendar date at UTC midnight
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
