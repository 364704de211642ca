package decimator

// DecimateMono builds a two-stage filter from the given sets and converts
// one channel of PDM to PCM. Use NewTwoStageFromSets directly when the
// same coefficients serve several calls.
func DecimateMono(pdm []int8, stage1, stage2 CoefficientSet) ([]int32, error) {
	chain, err := NewTwoStageFromSets(stage1, stage2, false)
	if err != nil {
		return nil, err
	}
	return chain.Filter(pdm), nil
}

// DecimateStereo converts a left/right microphone pair, one goroutine per
// channel.
func DecimateStereo(left, right []int8, stage1, stage2 CoefficientSet) (leftOut, rightOut []int32, err error) {
	chain, err := NewTwoStageFromSets(stage1, stage2, false, WithParallel(true))
	if err != nil {
		return nil, nil, err
	}

	out, err := chain.FilterMulti([][]int8{left, right})
	if err != nil {
		return nil, nil, err
	}
	return out[0], out[1], nil
}
