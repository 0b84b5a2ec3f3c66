package grading

// Score returns the weighted assignment score as a fraction: the sum of each
// problem's weight times its test percentage. Problems whose setup failed or
// that have no result contribute nothing.
func Score(schema Schema, summary Summary) float64 {
	var total float64
	for _, p := range schema.Problems {
		result, ok := summary.Result(p.Short)
		if !ok || result.SetupFailed {
			continue
		}
		total += p.Percentage * result.TestsPercentage
	}
	return total
}
