package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type kv struct {
	k string
	v float64
}

func kvKey(r kv) string  { return r.k }
func kvVal(r kv) float64 { return r.v }

func TestGroupCount(t *testing.T) {
	rows := []kv{{k: "Left"}, {k: "Active"}, {k: "Active"}, {k: "On Leave"}, {k: "At Risk"}, {k: "At Risk"}}

	assert.Equal(t, []CategoryCount{
		{Category: "Active", Count: 2},
		{Category: "At Risk", Count: 2},
		{Category: "Left", Count: 1},
		{Category: "On Leave", Count: 1},
	}, GroupCount(rows, kvKey))

	got := GroupCount(rows[:3], kvKey, "At Risk", "Active")
	assert.Equal(t, []CategoryCount{
		{Category: "Active", Count: 2},
		{Category: "Left", Count: 1},
		{Category: "At Risk", Count: 0},
	}, got)

	assert.Empty(t, GroupCount([]kv{}, kvKey))
	assert.Equal(t, []CategoryCount{{Category: "Present", Count: 0}}, GroupCount(nil, kvKey, "Present"))
}

func TestGroupMean(t *testing.T) {
	rows := []kv{{"Present", 80}, {"Absent", 50}, {"Present", 90}}
	assert.Equal(t, []CategoryMean{
		{Category: "Absent", Count: 1, Mean: 50},
		{Category: "Present", Count: 2, Mean: 85},
	}, GroupMean(rows, kvKey, kvVal))
	assert.Empty(t, GroupMean(nil, kvKey, kvVal))
}
