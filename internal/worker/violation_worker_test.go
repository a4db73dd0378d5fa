package worker

import (
	"testing"
	"time"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeViolation(t *testing.T) {
	item, err := decodeViolation(`{"candidate_id":"IC-1234","assessment_id":"assess_civil_001","kind":"tab_switch","timestamp":1700000000}`)
	require.NoError(t, err)
	assert.Equal(t, "IC-1234", item.CandidateID)
	assert.Equal(t, model.ViolationTabSwitch, item.Kind)

	_, err = decodeViolation(`{"candidate_id":"IC-1234"}`)
	assert.Error(t, err)

	_, err = decodeViolation(`not json`)
	assert.Error(t, err)
}

func TestViolationRow(t *testing.T) {
	row := violationRow(&model.ViolationQueueItem{
		CandidateID:  "IC-1234",
		AssessmentID: "paper",
		Kind:         "termination",
		Detail:       "left fullscreen",
		Timestamp:    1700000000,
	})
	require.Len(t, row, len(violationColumns))
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), row[4])

	row = violationRow(&model.ViolationQueueItem{CandidateID: "IC-1234", Kind: "termination"})
	recordedAt, ok := row[4].(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), recordedAt, 5*time.Second)
}
