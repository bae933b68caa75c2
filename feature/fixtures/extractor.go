package fixtures

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// minCells is the smallest row that can describe a fixture.
const minCells = 5

// Extractor turns fixture table pages into MatchRecords.
type Extractor struct {
	season int
	loc    *time.Location
	logger *zap.Logger
}

// NewExtractor creates an extractor. Dates without a year fall in season.
func NewExtractor(season int, loc *time.Location, logger *zap.Logger) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{season: season, loc: loc, logger: logger}
}

// Extract parses one page. Header and separator rows are skipped; a page
// without any table or a fixture row with an unreadable date is an
// *ExtractionError. Duplicates inside the page are kept as-is.
func (e *Extractor) Extract(content []byte, page PageKind) ([]MatchRecord, error) {
	if page != PageResults && page != PageCalendar {
		return nil, &ExtractionError{Page: page, Reason: "unknown page kind"}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, &ExtractionError{Page: page, Reason: "invalid html", Err: err}
	}

	if doc.Find("table").Length() == 0 {
		return nil, &ExtractionError{Page: page, Reason: "no fixture table found"}
	}

	var (
		records []MatchRecord
		failure error
	)
	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return true
		}
		cols := cells.Map(func(_ int, s *goquery.Selection) string {
			return cleanText(s.Text())
		})
		// header rows carry labels, never a day number
		if !strings.ContainsAny(cols[0], "0123456789") {
			return true
		}

		var (
			rec  *MatchRecord
			rerr error
		)
		switch page {
		case PageResults:
			rec, rerr = e.resultRow(cols)
		case PageCalendar:
			rec, rerr = e.calendarRow(cols)
		}
		if rerr != nil {
			failure = &ExtractionError{Page: page, Row: i + 1, Reason: "malformed fixture row", Err: rerr}
			return false
		}
		if rec != nil {
			records = append(records, *rec)
		}
		return true
	})
	if failure != nil {
		return nil, failure
	}

	e.logger.Debug("Extracted fixtures", zap.String("page", string(page)), zap.Int("count", len(records)))
	return records, nil
}

// resultRow reads: date | home | score | away | competition-or-status [| competition].
func (e *Extractor) resultRow(cols []string) (*MatchRecord, error) {
	dateText, home, scoreText, away := cols[0], cols[1], cols[2], cols[3]
	if dateText == "" || home == "" || away == "" || scoreText == "" {
		return nil, nil
	}

	competition := cols[4]
	if isStatusWord(competition) && len(cols) > 5 && cols[5] != "" && !isStatusWord(cols[5]) {
		competition = cols[5]
	}
	if isStatusWord(competition) {
		competition = ""
	}

	date, err := parseDate(dateText, e.season, e.loc)
	if err != nil {
		return nil, err
	}

	score, ok := parseScore(scoreText)
	if !ok {
		e.logger.Warn("Skipping result without score",
			zap.String("home", home),
			zap.String("away", away),
			zap.String("score", scoreText),
		)
		return nil, nil
	}

	rec := MatchRecord{
		HomeTeam:    home,
		AwayTeam:    away,
		Competition: competition,
		ScheduledAt: date,
		Status:      StatusFinished,
		Score:       score,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// calendarRow reads: date | home | v | away | time [| competition].
func (e *Extractor) calendarRow(cols []string) (*MatchRecord, error) {
	dateText, home, away, kickoff := cols[0], cols[1], cols[3], cols[4]
	if dateText == "" || home == "" || away == "" {
		return nil, nil
	}

	competition := ""
	if len(cols) > 5 {
		competition = cols[5]
	}

	date, err := parseDate(dateText, e.season, e.loc)
	if err != nil {
		return nil, err
	}

	rec := MatchRecord{
		HomeTeam:    home,
		AwayTeam:    away,
		Competition: competition,
		ScheduledAt: date,
		Status:      StatusScheduled,
	}
	if h, m, ok := parseKickoff(kickoff); ok {
		rec.ScheduledAt = time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, e.loc)
		rec.TimeConfirmed = true
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fixtureID is the cross-page identity used by Merge.
func fixtureID(r MatchRecord) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		r.Date(),
		strings.ToLower(r.HomeTeam),
		strings.ToLower(r.AwayTeam),
		strings.ToLower(r.Competition),
	)
}
