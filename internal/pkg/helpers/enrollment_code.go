package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	enrollmentCodePrefix = "ENR"
	base36Charset        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	courseCodeLength     = 3
	randomSuffixLength   = 4
)

// GenerateEnrollmentCode builds an enrollment code of the form
// ENR-<COURSE>-<YYYYMMDD>-<XXXX> where COURSE is the first three characters of
// course in upper case, the date is the UTC calendar day of now and XXXX is
// random base36. Codes are not guaranteed to be unique.
func GenerateEnrollmentCode(course string, now time.Time) string {
	courseCode := []rune(strings.ToUpper(strings.TrimSpace(course)))
	if len(courseCode) > courseCodeLength {
		courseCode = courseCode[:courseCodeLength]
	}

	return fmt.Sprintf("%s-%s-%s-%s", enrollmentCodePrefix, string(courseCode), now.UTC().Format("20060102"), randomBase36(randomSuffixLength))
}

var charsetSize = big.NewInt(int64(len(base36Charset)))

// randomBase36 draws each character uniformly from base36Charset
func randomBase36(n int) string {
	out := make([]byte, n)
	for i := range out {
		// crypto/rand.Reader never fails on supported platforms
		idx, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		out[i] = base36Charset[idx.Int64()]
	}
	return string(out)
}
