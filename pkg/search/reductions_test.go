package search

import "testing"

func TestLateMoveReduction_GrowsWithDepthAndCount(t *testing.T) {
	r := NewReductionTable()
	if r.LateMoveReduction(1, 1) != 1 {
		t.Fatalf("expected only the constant reduction of 1 for the first move at depth 1")
	}
	if r.LateMoveReduction(10, 20) <= r.LateMoveReduction(10, 5) {
		t.Fatalf("reduction should grow with move count at fixed depth")
	}
	if r.LateMoveReduction(20, 10) <= r.LateMoveReduction(5, 10) {
		t.Fatalf("reduction should grow with depth at fixed move count")
	}
}

func TestLateMoveReduction_ClampsOutOfRangeIndices(t *testing.T) {
	r := NewReductionTable()
	if r.LateMoveReduction(1000, 1000) != r.LateMoveReduction(reductionTableSize-1, reductionTableSize-1) {
		t.Fatalf("out-of-range indices should clamp to the table's edge")
	}
	if r.LateMoveReduction(-5, -5) != r.LateMoveReduction(0, 0) {
		t.Fatalf("negative indices should clamp to zero")
	}
}

func TestLateCaptureReduction_SmallerThanQuietReduction(t *testing.T) {
	r := NewReductionTable()
	if r.LateCaptureReduction(12, 12) >= r.LateMoveReduction(12, 12) {
		t.Fatalf("capture reductions use a smaller scale constant than quiet reductions")
	}
}
