package seed

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixture = `
regions:
  - name: Jalisco
    slug: jalisco
    cities:
      - {name: Guadalajara, slug: guadalajara}
venues:
  - slug: cafe-central
    name: {es: Café Central, EN: Central Cafe}
    category: cafe
    region: jalisco
    city: guadalajara
    plan: " Premium "
    schedule:
      monday: {isOpen: true, ranges: [{start: "08:00", end: "14:00"}, {start: "17:00", end: "22:00"}]}
      sunday: {isOpen: false}
    tags: [coffee, wifi]
`

func TestParseNormalizesPlan(t *testing.T) {
	f, err := Parse([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, f.Venues, 1)
	assert.Equal(t, "premium", f.Venues[0].Plan)
	assert.Len(t, f.Venues[0].Schedule, 2)
}

func TestParseDefaultsPlanToFree(t *testing.T) {
	doc := `
regions:
  - {name: Jalisco, slug: jalisco, cities: [{name: Zapopan, slug: zapopan}]}
venues:
  - {slug: taqueria, name: {es: Taquería}, region: jalisco, city: zapopan}
`
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "free", f.Venues[0].Plan)
}

func TestParseRejectsBadFixtures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown plan",
			doc: `
regions: [{name: J, slug: j, cities: [{name: G, slug: g}]}]
venues: [{slug: a, name: {es: A}, region: j, city: g, plan: gold}]`,
			want: "unknown subscription plan",
		},
		{
			name: "unknown city",
			doc: `
regions: [{name: J, slug: j, cities: [{name: G, slug: g}]}]
venues: [{slug: a, name: {es: A}, region: j, city: x}]`,
			want: "unknown city j/x",
		},
		{
			name: "malformed range",
			doc: `
regions: [{name: J, slug: j, cities: [{name: G, slug: g}]}]
venues:
  - slug: a
    name: {es: A}
    region: j
    city: g
    schedule:
      friday: {isOpen: true, ranges: [{start: "25:00", end: "23:00"}]}`,
			want: "malformed schedule entry",
		},
		{
			name: "unknown weekday",
			doc: `
regions: [{name: J, slug: j, cities: [{name: G, slug: g}]}]
venues:
  - slug: a
    name: {es: A}
    region: j
    city: g
    schedule:
      lunes: {isOpen: true}`,
			want: `unknown weekday "lunes"`,
		},
		{
			name: "missing name",
			doc: `
regions: [{name: J, slug: j, cities: [{name: G, slug: g}]}]
venues: [{slug: a, region: j, city: g}]`,
			want: "slug and name are required",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func expectRegion(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("INSERT INTO regions").
		WithArgs("Jalisco", "jalisco").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO cities").
		WithArgs(int64(1), "Guadalajara", "guadalajara").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
}

func venueArgs() []driver.Value {
	a := sqlmock.AnyArg()
	return []driver.Value{
		a, "cafe-central", a, a, "cafe", int64(1), int64(7), a,
		a, a, "premium", a, a, a, a,
	}
}

func TestRunInsertsFixture(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f, err := Parse([]byte(fixture))
	require.NoError(t, err)

	mock.ExpectBegin()
	expectRegion(mock)
	mock.ExpectExec("INSERT INTO venues").
		WithArgs(venueArgs()...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := New(db, zap.NewNop()).Run(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, Result{Regions: 1, Cities: 1, Venues: 1}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSkipsExistingVenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f, err := Parse([]byte(fixture))
	require.NoError(t, err)

	mock.ExpectBegin()
	expectRegion(mock)
	mock.ExpectExec("INSERT INTO venues").
		WithArgs(venueArgs()...).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := New(db, zap.NewNop()).Run(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Venues)
	assert.Equal(t, 1, res.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f, err := Parse([]byte(fixture))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO regions").
		WithArgs("Jalisco", "jalisco").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO cities").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = New(db, zap.NewNop()).Run(context.Background(), f)
	assert.ErrorContains(t, err, "failed to upsert city jalisco/guadalajara")
	assert.NoError(t, mock.ExpectationsWereMet())
}
