package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oeo/credit-facility/internal/clock"
)

func testService(t *testing.T) (*Service, *clock.TestProvider) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&FacilitySnapshot{}, &EventRecord{}))

	tp := clock.NewTest(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewService(db, tp), tp
}

func termLoanRequest() CreateFacilityRequest {
	return CreateFacilityRequest{
		AccountID:  "ACC-100",
		CustomerID: "CUST-100",
		Commitment: "1200",
		Kind:       "TERM_LOAN",
		TermMonths: 12,
		Rate:       "0",
	}
}

func TestCreateFacilityPersistsSnapshot(t *testing.T) {
	service, _ := testService(t)

	view, err := service.CreateFacility(termLoanRequest())
	require.NoError(t, err)
	assert.Equal(t, "ORIGINATED", view.Status)
	assert.Equal(t, "TERM_LOAN", view.Kind)

	snapshot, err := service.GetDB().LatestSnapshot(view.ID)
	require.NoError(t, err)
	assert.Equal(t, "origination", snapshot.Trigger)
	assert.Equal(t, "ORIGINATED", snapshot.Status)
}

func TestFullLifecycleThroughService(t *testing.T) {
	service, _ := testService(t)

	view, err := service.CreateFacility(termLoanRequest())
	require.NoError(t, err)
	id := view.ID

	view, err = service.Approve(id)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", view.Status)

	view, err = service.Disburse(id, "1200")
	require.NoError(t, err)
	assert.Equal(t, "1200.00", view.OutstandingPrincipal)

	app, err := service.MakePayment(id, "1200")
	require.NoError(t, err)
	assert.Equal(t, "1200.00", app.ToPrincipal.Display())

	view, err = service.GetFacility(id)
	require.NoError(t, err)
	assert.Equal(t, "SETTLED", view.Status)

	// Every operation journaled its events.
	records, err := service.Events(id)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "facility.originated", records[0].EventType)
}

func TestSweepSkipsClosedFacilities(t *testing.T) {
	service, tp := testService(t)

	view, err := service.CreateFacility(termLoanRequest())
	require.NoError(t, err)
	_, err = service.Approve(view.ID)
	require.NoError(t, err)
	_, err = service.Disburse(view.ID, "1200")
	require.NoError(t, err)

	tp.AdvanceDays(1)
	swept, err := service.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	_, err = service.MakePayment(view.ID, "1200")
	require.NoError(t, err)

	tp.AdvanceDays(1)
	swept, err = service.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, swept, "settled facilities are not swept")
}

func TestUnknownFacilityReturnsNotFound(t *testing.T) {
	service, _ := testService(t)

	_, err := service.GetFacility("no-such-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = service.Disburse("no-such-id", "100")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
