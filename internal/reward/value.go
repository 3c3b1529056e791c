// Package reward converts user-entered reward values into point costs.
// Two forms are accepted: monetary ("$20") and time ("1h 30m", "2d", or a
// bare minute count like "90").
package reward

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Conversion rates.
const (
	DollarToPoints = 100
	MinuteToPoints = 10
)

var (
	timePartRe    = regexp.MustCompile(`(\d+)\s*([dhm])`)
	bareMinutesRe = regexp.MustCompile(`^\d+$`)
)

// ParseError reports an unparsable value string. It is a validation
// outcome: nothing has been mutated when it is returned.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse value %q: %s", e.Input, e.Reason)
}

// ParseValue converts a value string to a point cost.
//
//	"$20"     -> 2000
//	"1h 30m"  -> 900
//	"2d"      -> 28800
//	"90"      -> 900 (bare numbers are minutes)
func ParseValue(input string) (int32, error) {
	s := strings.ToLower(strings.TrimSpace(input))

	if strings.HasPrefix(s, "$") {
		amount, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, &ParseError{Input: input, Reason: "invalid dollar amount"}
		}
		if amount < 0 {
			amount = -amount
		}
		return int32(amount * DollarToPoints), nil
	}

	parts := timePartRe.FindAllStringSubmatch(s, -1)
	if len(parts) == 0 && bareMinutesRe.MatchString(s) {
		parts = [][]string{{s, s, "m"}}
	}
	if len(parts) == 0 {
		return 0, &ParseError{Input: input, Reason: "use '$', 'd', 'h', 'm' (e.g. '$25', '1h 30m')"}
	}

	totalMinutes := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part[1])
		if err != nil {
			return 0, &ParseError{Input: input, Reason: "invalid number"}
		}
		switch part[2] {
		case "d":
			totalMinutes += n * 24 * 60
		case "h":
			totalMinutes += n * 60
		case "m":
			totalMinutes += n
		}
	}
	return int32(totalMinutes * MinuteToPoints), nil
}
