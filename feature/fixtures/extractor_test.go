package fixtures

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body><table>
<thead><tr><th>Data</th><th>Casa</th><th></th><th>Visitante</th><th>Resultado</th></tr></thead>
<tbody>
<tr><td>dom., 8 fev.</td><td>Mirassol</td><td>2 - 1</td><td>Santos</td><td>Paulistão</td></tr>
<tr><td>qua., 11 fev.</td><td>Palmeiras</td><td>1-1</td><td>Mirassol</td><td>Finalizado</td><td>Brasileirão</td></tr>
<tr><td>sáb., 14 fev.</td><td>Mirassol</td><td>0 - 0</td><td>Bragantino</td><td>FT</td></tr>
<tr><td>dom., 15 fev.</td><td>Mirassol</td><td>Adiado</td><td>Ponte Preta</td><td>Paulistão</td></tr>
<tr><td colspan="5">Fevereiro</td></tr>
</tbody></table></body></html>`

const calendarPage = `<html><body><table>
<tr><td>Data</td><td>Casa</td><td></td><td>Visitante</td><td>Hora</td><td>Competição</td></tr>
<tr><td>ter., 10 mar.</td><td>Mirassol</td><td>v</td><td>Palmeiras</td><td>A definir</td><td>Brasileirão</td></tr>
<tr><td>sáb., 14 mar.</td><td>Grêmio</td><td>v</td><td>Mirassol</td><td>18:30</td><td>Brasileirão</td></tr>
<tr><td>qua., 1 abr. 2027</td><td>Mirassol</td><td>v</td><td>Flamengo</td><td>21h</td><td>Copa do Brasil</td></tr>
</table></body></html>`

func newTestExtractor(t *testing.T) *Extractor {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return NewExtractor(2026, loc, nil)
}

func TestExtract_Results(t *testing.T) {
	e := newTestExtractor(t)

	records, err := e.Extract([]byte(resultsPage), PageResults)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "Mirassol", first.HomeTeam)
	assert.Equal(t, "Santos", first.AwayTeam)
	assert.Equal(t, "Paulistão", first.Competition)
	assert.Equal(t, StatusFinished, first.Status)
	assert.Equal(t, &Score{Home: 2, Away: 1}, first.Score)
	assert.Equal(t, "2026-02-08", first.Date())
	assert.False(t, first.TimeConfirmed)

	// status word in the competition column shifts to the next cell
	assert.Equal(t, "Brasileirão", records[1].Competition)
	// a lone status word is dropped
	assert.Equal(t, "", records[2].Competition)
}

func TestExtract_Calendar(t *testing.T) {
	e := newTestExtractor(t)

	records, err := e.Extract([]byte(calendarPage), PageCalendar)
	require.NoError(t, err)
	require.Len(t, records, 3)

	tbd := records[0]
	assert.Equal(t, "Palmeiras", tbd.AwayTeam)
	assert.Equal(t, StatusScheduled, tbd.Status)
	assert.False(t, tbd.TimeConfirmed)
	assert.Equal(t, "2026-03-10", tbd.Date())
	assert.Nil(t, tbd.Score)

	confirmed := records[1]
	assert.True(t, confirmed.TimeConfirmed)
	assert.Equal(t, 18, confirmed.ScheduledAt.Hour())
	assert.Equal(t, 30, confirmed.ScheduledAt.Minute())
	assert.Equal(t, "America/Sao_Paulo", confirmed.ScheduledAt.Location().String())

	explicitYear := records[2]
	assert.Equal(t, "2027-04-01", explicitYear.Date())
	assert.Equal(t, 21, explicitYear.ScheduledAt.Hour())
	assert.Equal(t, "Copa do Brasil", explicitYear.Competition)
}

func TestExtract_Errors(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		body string
		page PageKind
	}{
		{"NoTable", `<html><body><p>Acesso negado</p></body></html>`, PageCalendar},
		{"BadDate", `<table><tr><td>dom., 99 fev.</td><td>Mirassol</td><td>v</td><td>Santos</td><td>16:00</td></tr></table>`, PageCalendar},
		{"BadMonth", `<table><tr><td>dom., 8 xyz.</td><td>Mirassol</td><td>1-0</td><td>Santos</td><td>Paulistão</td></tr></table>`, PageResults},
		{"UnknownPage", `<table></table>`, PageKind("standings")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract([]byte(tt.body), tt.page)
			require.Error(t, err)
			var extractErr *ExtractionError
			assert.True(t, errors.As(err, &extractErr))
		})
	}
}

func TestExtract_KeepsInPageDuplicates(t *testing.T) {
	e := newTestExtractor(t)
	page := `<table>
<tr><td>ter., 10 mar.</td><td>Mirassol</td><td>v</td><td>Palmeiras</td><td>A definir</td><td>Brasileirão</td></tr>
<tr><td>ter., 10 mar.</td><td>Mirassol</td><td>v</td><td>Palmeiras</td><td>A definir</td><td>Brasileirão</td></tr>
</table>`

	records, err := e.Extract([]byte(page), PageCalendar)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseDate(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		in   string
		want string
	}{
		{"dom., 8 fev.", "2026-02-08"},
		{"Qua., 11 Fevereiro", "2026-02-11"},
		{"sáb., 7 de março de 2025", "2025-03-07"},
		{"08/02", "2026-02-08"},
		{"31/12/27", "2027-12-31"},
		{"9 dez.", "2026-12-09"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in, 2026, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}

	_, err := parseDate("31 fev.", 2026, loc)
	assert.Error(t, err)
	_, err = parseDate("", 2026, loc)
	assert.Error(t, err)
}

func TestParseKickoff(t *testing.T) {
	tests := []struct {
		in     string
		h, m   int
		wantOK bool
	}{
		{"18:30", 18, 30, true},
		{"21h", 21, 0, true},
		{"16h00", 16, 0, true},
		{"A definir", 0, 0, false},
		{"TBD", 0, 0, false},
		{"", 0, 0, false},
		{"25:00", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, ok := parseKickoff(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.h, h)
				assert.Equal(t, tt.m, m)
			}
		})
	}
}

func TestMatchRecord_Validate(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	valid := MatchRecord{HomeTeam: "Mirassol", AwayTeam: "Palmeiras", ScheduledAt: date, Status: StatusScheduled}
	assert.NoError(t, valid.Validate())

	noScore := valid
	noScore.Status = StatusFinished
	assert.ErrorIs(t, noScore.Validate(), ErrInvalidRecord)

	scored := valid
	scored.Score = &Score{Home: 1}
	assert.ErrorIs(t, scored.Validate(), ErrInvalidRecord)

	noAway := valid
	noAway.AwayTeam = " "
	assert.ErrorIs(t, noAway.Validate(), ErrInvalidRecord)
}
