// Package fixtures scrapes football fixtures from ESPN Brasil team pages.
//
// Two pages are read: the results page (played fixtures with scores) and
// the calendar page (upcoming fixtures with kickoff times, or "A definir"
// while the kickoff is unknown). Rows are table rows with at least five
// cells; anything shorter is treated as a header or separator.
//
// Extraction is strict: a page without a table, or a fixture row whose
// date cannot be read, fails the whole scrape with an *ExtractionError.
package fixtures
