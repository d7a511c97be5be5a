package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanRecord(liters, total float64) *ParsedFuelRecord {
	return &ParsedFuelRecord{
		Liters:      &liters,
		TotalAmount: &total,
		Errors:      []string{},
	}
}

func TestComputeStats(t *testing.T) {
	bad := cleanRecord(50, 2000)
	bad.Errors = []string{MsgInvalidDate}

	records := []*ParsedFuelRecord{
		cleanRecord(100, 5000),
		bad,
		cleanRecord(100, 7000),
	}

	stats := ComputeStats(records)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 1, stats.ErrorCount)
	// The erroring record contributes nothing, even though its amounts
	// parsed cleanly.
	assert.Equal(t, 200.0, stats.TotalLiters)
	assert.Equal(t, 12000.0, stats.TotalCost)
	assert.Equal(t, 60.0, stats.AvgPricePerLiter)
}

func TestComputeStatsAllErrors(t *testing.T) {
	bad := cleanRecord(10, 100)
	bad.Errors = []string{MsgInvalidLiters}

	stats := ComputeStats([]*ParsedFuelRecord{bad})

	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, 1, stats.ErrorCount)
	assert.Zero(t, stats.TotalLiters)
	assert.Zero(t, stats.TotalCost)
	assert.Zero(t, stats.AvgPricePerLiter)
}

func TestEligiblePreservesOrder(t *testing.T) {
	first := cleanRecord(1, 10)
	bad := cleanRecord(2, 20)
	bad.Errors = []string{MsgInvalidAmount}
	last := cleanRecord(3, 30)

	batch := NewImportBatch([]*ParsedFuelRecord{first, bad, last})

	eligible := batch.Eligible()
	require.Len(t, eligible, 2)
	assert.Same(t, first, eligible[0])
	assert.Same(t, last, eligible[1])
}

func TestNewBatchID(t *testing.T) {
	a := NewBatchID()
	b := NewBatchID()

	assert.True(t, strings.HasPrefix(a, "FUEL-"))
	assert.NotEqual(t, a, b)
}
