package batch

import (
	"fmt"

	fp "github.com/fendysetiawan/SimpleFpCalc/internal/calc/fp"
)

type FpBatchInput struct {
	Items []fp.Input `json:"items"`
}

type FpBatchResult struct {
	Results []fp.Result `json:"results"`
}

// CalculateFp evaluates every item or fails on the first invalid one; a
// partial batch is never returned.
func CalculateFp(in FpBatchInput) (FpBatchResult, error) {
	if len(in.Items) == 0 {
		return FpBatchResult{}, fmt.Errorf("no items")
	}
	out := FpBatchResult{Results: make([]fp.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := fp.Calculate(item)
		if err != nil {
			return FpBatchResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
