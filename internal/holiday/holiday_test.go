package holiday

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"P-1D", -1},
		{"P40D", 40},
		{"P0D", 0},
		{"P2D", 2},
		{"P-100D", -100},
	}
	for _, c := range cases {
		got, err := ParseOffset(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseOffset_Malformed(t *testing.T) {
	for _, in := range []string{"", "P1W", "1D", "PD", "P1.5D", "PxD", "P1D2"} {
		_, err := ParseOffset(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFixed_MonthDay(t *testing.T) {
	m, d, err := (&Fixed{Date: "0101"}).MonthDay()
	require.NoError(t, err)
	assert.Equal(t, time.January, m)
	assert.Equal(t, 1, d)

	m, d, err = (&Fixed{Date: "1225"}).MonthDay()
	require.NoError(t, err)
	assert.Equal(t, time.December, m)
	assert.Equal(t, 25, d)
}

func TestFixed_MonthDay_Invalid(t *testing.T) {
	for _, date := range []string{"", "101", "13255", "0000", "1301", "0132", "0229", "ab01"} {
		_, _, err := (&Fixed{Date: date}).MonthDay()
		assert.Error(t, err, "date %q", date)
	}
}

func TestFixed_Dates(t *testing.T) {
	dates, err := (&Fixed{Date: "0101"}).Dates(1999, 2099)
	require.NoError(t, err)
	require.Len(t, dates, 101)
	assert.Equal(t, time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC), dates[100])
}

func TestMovable_Dates_GoodFriday(t *testing.T) {
	// Easter 2024 is March 31; the anchor is the Saturday before (March
	// 30), so a P-1D offset lands on Good Friday, March 29.
	dates, err := (&Movable{Diff: "P-1D"}).Dates(2024, 2024)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestMovable_Dates_CrossesYearBoundary(t *testing.T) {
	// Easter 2005 is March 27, anchor March 26; 100 days earlier is
	// December 16, 2004. No clamping at the year boundary.
	dates, err := (&Movable{Diff: "P-100D"}).Dates(2005, 2005)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2004, time.December, 16, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestMovable_Dates_MalformedOffset(t *testing.T) {
	_, err := (&Movable{Diff: "P1W"}).Dates(1999, 2099)
	assert.Error(t, err)
}

func TestStore_GetOrCreate(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		return fmt.Sprintf("uid-%d", calls)
	}

	s := Store{}
	first := s.GetOrCreate("0329_1999_11", gen)
	assert.Equal(t, "uid-1", first)

	// Existing identifiers are returned unchanged, never regenerated.
	again := s.GetOrCreate("0329_1999_11", gen)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, calls)

	other := s.GetOrCreate("0330_1999_11", gen)
	assert.Equal(t, "uid-2", other)
	assert.Len(t, s, 2)
}

func TestNewUUID_Distinct(t *testing.T) {
	a := NewUUID()
	b := NewUUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRuleKey(t *testing.T) {
	assert.Equal(t, "0329_1999_11", RuleKey(time.March, 29, 1999, 11))
	assert.Equal(t, "1216_2085_0", RuleKey(time.December, 16, 2085, 0))
}
