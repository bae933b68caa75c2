package fixtures

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// months maps Portuguese month prefixes to their number.
var months = []struct {
	prefix string
	month  time.Month
}{
	{"jan", time.January},
	{"fev", time.February},
	{"mar", time.March},
	{"abr", time.April},
	{"mai", time.May},
	{"jun", time.June},
	{"jul", time.July},
	{"ago", time.August},
	{"set", time.September},
	{"out", time.October},
	{"nov", time.November},
	{"dez", time.December},
}

var (
	weekdayPrefix = regexp.MustCompile(`^\p{L}+\.?,\s*`)
	dayMonthWord  = regexp.MustCompile(`(\d{1,2})\s+(?:de\s+)?(\p{L}+)`)
	dayMonthNum   = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	yearPattern   = regexp.MustCompile(`\b(\d{4})\b`)
	kickoffClock  = regexp.MustCompile(`^(\d{1,2})\s*[:h]\s*(\d{2})?`)
	scorePattern  = regexp.MustCompile(`(\d+)\s*[-x–]\s*(\d+)`)
)

// parseDate reads dates such as "dom., 8 fev.", "qua., 11 de março de 2026" or "08/02".
// The season is used when the text carries no year.
func parseDate(raw string, season int, loc *time.Location) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = weekdayPrefix.ReplaceAllString(s, "")
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	year := season
	if m := yearPattern.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
	}

	var (
		day   int
		month time.Month
	)
	if m := dayMonthNum.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		n, _ := strconv.Atoi(m[2])
		month = time.Month(n)
		if m[3] != "" {
			y, _ := strconv.Atoi(m[3])
			if y < 100 {
				y += 2000
			}
			year = y
		}
	} else if m := dayMonthWord.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month = monthFromWord(m[2])
	} else {
		return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
	}

	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("unknown month in %q", raw)
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("invalid day in %q", raw)
	}
	return t, nil
}

func monthFromWord(w string) time.Month {
	for _, m := range months {
		if strings.HasPrefix(w, m.prefix) {
			return m.month
		}
	}
	return 0
}

// parseKickoff returns the kickoff clock, or ok=false when the source has
// not confirmed it ("A definir", "TBD", blank).
func parseKickoff(raw string) (hour, minute int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || strings.Contains(s, "definir") || strings.Contains(s, "tbd") {
		return 0, 0, false
	}

	m := kickoffClock.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// parseScore reads "2 - 1", "2-1" or "V 2-1".
func parseScore(raw string) (*Score, bool) {
	m := scorePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	home, _ := strconv.Atoi(m[1])
	away, _ := strconv.Atoi(m[2])
	return &Score{Home: home, Away: away}, true
}

// statusWords are values the results table sometimes shows in the competition column.
var statusWords = map[string]struct{}{
	"finalizado": {},
	"final":      {},
	"encerrado":  {},
	"terminado":  {},
	"concluído":  {},
	"concluido":  {},
	"ft":         {},
}

func isStatusWord(s string) bool {
	_, ok := statusWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
