package date_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taxlot/date"
)

func TestDate(t *testing.T) {
	rq := require.New(t)

	d1 := date.New(2022, 1, 2)
	d2, err := date.Parse(date.DefaultFormat, "2022-01-02")
	rq.Nil(err)
	rq.Equal(d1, d2)
	rq.Equal("2022-01-02", d1.String())

	d2, err = date.Parse(date.DefaultFormat, "2022-01-02 xxxx")
	rq.NotNil(err)

	d3 := d1.AddDays(2)
	rq.Equal("2022-01-04", d3.String())

	defaultDate := date.Date{}
	rq.Equal(defaultDate, date.New(1, time.January, 1))
}

func TestDateRange(t *testing.T) {
	rq := require.New(t)

	r := date.NewRange(date.New(2022, time.January, 1), date.New(2022, time.December, 31))
	rq.True(r.Contains(date.New(2022, time.January, 1)))
	rq.True(r.Contains(date.New(2022, time.June, 15)))
	rq.True(r.Contains(date.New(2022, time.December, 31)))
	rq.False(r.Contains(date.New(2021, time.December, 31)))
	rq.False(r.Contains(date.New(2023, time.January, 1)))

	rq.Equal("2022-01-01 to 2022-12-31", r.String())
}
