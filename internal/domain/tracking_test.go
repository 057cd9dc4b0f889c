package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline_NewestFirstStable(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []OrderTracking{
		{TrackID: 1, Status: TrackingCreated, UpdateDate: base},
		{TrackID: 2, Status: TrackingConfirmed, UpdateDate: base.Add(2 * time.Hour)},
		{TrackID: 3, Status: TrackingOnHold, UpdateDate: base.Add(time.Hour)},
		{TrackID: 4, Status: TrackingIssueDetected, UpdateDate: base.Add(2 * time.Hour)},
		{TrackID: 5, Status: TrackingInProduction, UpdateDate: base.Add(time.Hour)},
	}

	timeline := Timeline(records)

	ids := make([]uint64, 0, len(timeline))
	for _, r := range timeline {
		ids = append(ids, r.TrackID)
	}
	assert.Equal(t, []uint64{2, 4, 3, 5, 1}, ids)

	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].UpdateDate.After(timeline[i-1].UpdateDate))
	}

	assert.Equal(t, uint64(1), records[0].TrackID, "input must not be reordered")
}

func TestCurrentTracking(t *testing.T) {
	_, ok := CurrentTracking(nil)
	assert.False(t, ok)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	current, ok := CurrentTracking([]OrderTracking{
		{TrackID: 10, UpdateDate: base},
		{TrackID: 11, UpdateDate: base.Add(time.Minute)},
	})
	require.True(t, ok)
	assert.Equal(t, uint64(11), current.TrackID)
}

func TestTrackingInput_Validate(t *testing.T) {
	assert.NoError(t, TrackingInput{OrderID: 1, Status: TrackingOnHold}.Validate())

	err := TrackingInput{OrderID: 1, Status: TrackingStatus("SHIPPED")}.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Fields(), "status")
}

func TestDetectDrift(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   OrderStatus
		tracking []OrderTracking
		drift    bool
	}{
		{name: "no tracking", status: StatusPending},
		{
			name:     "aligned",
			status:   StatusInProduction,
			tracking: []OrderTracking{{Status: TrackingInProduction, UpdateDate: base}},
		},
		{
			name:   "hold is never drift",
			status: StatusApproved,
			tracking: []OrderTracking{
				{Status: TrackingConfirmed, UpdateDate: base},
				{Status: TrackingOnHold, UpdateDate: base.Add(time.Hour)},
			},
		},
		{
			name:     "tracking ahead of order",
			status:   StatusApproved,
			tracking: []OrderTracking{{Status: TrackingDelivered, UpdateDate: base}},
			drift:    true,
		},
		{
			name:   "stale record ignored",
			status: StatusReadyForDelivery,
			tracking: []OrderTracking{
				{Status: TrackingReadyForDelivery, UpdateDate: base.Add(time.Hour)},
				{Status: TrackingCreated, UpdateDate: base},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drift := DetectDrift(SalesOrder{Status: tt.status}, tt.tracking)
			assert.Equal(t, tt.drift, drift != nil)
		})
	}
}

func TestStageMappings_CoverVocabularies(t *testing.T) {
	for _, s := range orderLifecycle {
		assert.NotEqual(t, StageUnknown, s.Stage(), s)
	}
	for s := range trackingBadges {
		assert.NotEqual(t, StageUnknown, s.Stage(), s)
	}
	assert.Equal(t, StageUnknown, OrderStatus("X").Stage())
}
