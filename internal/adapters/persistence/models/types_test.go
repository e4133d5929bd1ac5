package models

import (
	"encoding/json"
	"testing"
	"time"

	"imc-punching/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestTimestampScan(t *testing.T) {
	want := time.Date(2025, 4, 22, 3, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
	}{
		{name: "Native time", input: want},
		{name: "RFC3339 string", input: "2025-04-22T09:00:00+05:30"},
		{name: "Postgres text bytes", input: []byte("2025-04-22 03:30:00+00")},
		{name: "Offset-less text is UTC", input: "2025-04-22 03:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, ts.Scan(tt.input))
			assert.True(t, want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
	assert.Error(t, ts.Scan(42))
	assert.Error(t, ts.Scan("not a time"))
}

func TestDateOnlyScanAndValue(t *testing.T) {
	var d DateOnly
	require.NoError(t, d.Scan(time.Date(2025, 4, 22, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-04-22", d.String())

	require.NoError(t, d.Scan([]byte("2025-04-23")))
	assert.Equal(t, "2025-04-23", d.String())

	require.NoError(t, d.Scan("2025-04-24T00:00:00Z"))
	assert.Equal(t, "2025-04-24", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-04-24", v)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-04-24"`, string(b))
}

func TestIntervalScan(t *testing.T) {
	tests := []struct {
		input any
		want  int64
	}{
		{input: int64(28800), want: 28800},
		{input: "28800", want: 28800},
		{input: []byte("08:00:00"), want: 28800},
		{input: "1 day 02:00:30", want: 93630},
		{input: "00:00:59.9", want: 59},
	}

	for _, tt := range tests {
		var i Interval
		require.NoError(t, i.Scan(tt.input), "%v", tt.input)
		assert.Equal(t, tt.want, i.Seconds(), "%v", tt.input)
	}

	var i Interval
	assert.Error(t, i.Scan("eight hours"))
}

func TestPunchRecordJSON(t *testing.T) {
	in := time.Date(2025, 4, 22, 9, 0, 0, 0, time.FixedZone("IST", 19800))
	date, err := ParseDateOnly("2025-04-22")
	require.NoError(t, err)

	rec := PunchRecord{
		ID:             7,
		PunchDate:      date,
		PunchInTime:    NewTimestamp(in),
		TotalTimeSpent: &Interval{Duration: 8 * time.Hour},
		Status:         domain.PunchStatusCompleted,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "2025-04-22", out["punch_date"])
	assert.Equal(t, "2025-04-22T09:00:00+05:30", out["punch_in_time"])
	assert.Equal(t, float64(28800), out["total_time_spent"])
	assert.Nil(t, out["punch_out_time"])
	assert.Equal(t, "COMPLETED", out["status"])
}

func TestAfterFindDefaultsStatus(t *testing.T) {
	rec := &PunchRecord{}
	require.NoError(t, rec.AfterFind(nil))
	assert.Equal(t, domain.PunchStatusPending, rec.Status)
	assert.False(t, rec.IsCompleted())
}

func TestIntervalColumnPerDialect(t *testing.T) {
	pg, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=punch dbname=punch sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	lite, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.Equal(t, "interval", Interval{}.GormDBDataType(pg, nil))
	assert.Equal(t, "bigint", Interval{}.GormDBDataType(lite, nil))

	stmt := pg.Model(&PunchRecord{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{"total_time_spent": Interval{Duration: 8 * time.Hour}}).
		Statement
	assert.Contains(t, stmt.SQL.String(), `"total_time_spent"=make_interval(secs => $1)`)
	assert.Contains(t, stmt.Vars, int64(28800))
}

func TestTimestampValueIsUTC(t *testing.T) {
	in := time.Date(2025, 4, 22, 9, 0, 0, 0, time.FixedZone("IST", 19800))
	v, err := NewTimestamp(in).Value()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, v.(time.Time).Location())
	assert.True(t, in.Equal(v.(time.Time)))
}
