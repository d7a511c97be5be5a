package importer

import (
	"fmt"
	"time"
)

// ImportBatch groups one analysis run. The batch itself is never
// persisted; committed rows carry BatchID as a soft grouping key so an
// import can be audited (or rolled back by query) later.
type ImportBatch struct {
	BatchID string              `json:"batch_id"`
	Records []*ParsedFuelRecord `json:"records"`
	Stats   BatchStats          `json:"stats"`
}

type BatchStats struct {
	TotalRecords     int     `json:"total_records"`
	TotalLiters      float64 `json:"total_liters"`
	TotalCost        float64 `json:"total_cost"`
	AvgPricePerLiter float64 `json:"avg_price_per_liter"`
	ErrorCount       int     `json:"error_count"`
}

// NewBatchID returns a process-locally unique batch tag.
func NewBatchID() string {
	return fmt.Sprintf("FUEL-%d", time.Now().UnixNano())
}

func NewImportBatch(records []*ParsedFuelRecord) *ImportBatch {
	return &ImportBatch{
		BatchID: NewBatchID(),
		Records: records,
		Stats:   ComputeStats(records),
	}
}

// ComputeStats aggregates over error-free records only. A record with
// any validation error contributes nothing to the sums, even when its
// amounts parsed cleanly.
func ComputeStats(records []*ParsedFuelRecord) BatchStats {
	stats := BatchStats{TotalRecords: len(records)}
	for _, r := range records {
		if !r.Eligible() {
			stats.ErrorCount++
			continue
		}
		if r.Liters != nil {
			stats.TotalLiters += *r.Liters
		}
		if r.TotalAmount != nil {
			stats.TotalCost += *r.TotalAmount
		}
	}
	if stats.TotalLiters > 0 {
		stats.AvgPricePerLiter = stats.TotalCost / stats.TotalLiters
	}
	return stats
}

// Eligible returns the commit-eligible subset in source order.
func (b *ImportBatch) Eligible() []*ParsedFuelRecord {
	out := make([]*ParsedFuelRecord, 0, len(b.Records))
	for _, r := range b.Records {
		if r.Eligible() {
			out = append(out, r)
		}
	}
	return out
}
