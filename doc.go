// Package decimator is a bit-exact numerical model of the two-stage
// decimation filter that turns a 1-bit PDM microphone stream into PCM audio
// on XMOS xcore hardware.
//
// Filter coefficients are designed elsewhere in floating point. This
// package quantizes them into the integer formats the hardware consumes,
// packs them into the hardware's native bit layout, and simulates both
// stages at floating-point and fixed-point precision, so quantization error
// and shift-based rescaling can be checked before deployment.
//
// # Pipeline
//
//	PDM (±1) -> [Stage1Filter] -> int32 -> [Stage2Filter] -> PCM int32
//	             int16 taps, ×32           int32 taps, ×Q2
//	             BitPlanes × 256-bit        right shift ShrInt32
//	             correlator blocks
//
// Stage 1 runs at the PDM rate. Its taps are quantized to int16 with the
// peak at [Int16MaxCoefficient] and stored as 16 bit planes; the hardware
// correlates each 256-tap block of a plane with 256 PDM bits at once
// ([Correlate], [CorrelateWords]). [Stage1Filter.ToXCoreCoefArray] produces
// the packed words the device loads.
//
// Stage 2 is an ordinary FIR over stage-1 output with int32 taps. Its right
// shift is derived from the largest value a one-block stage 1 can emit so
// the fixed-point output cannot overflow 32 bits.
//
// # Quick Start
//
//	s1, err := decimator.NewStage1Filter(stage1Coefs, decimator.DefaultStage1DecimationFactor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s2, err := decimator.NewStage2Filter(stage2Coefs, 6)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chain, _ := decimator.NewTwoStageFilter(s1, s2)
//
//	pcm := chain.Filter(pdm)             // fixed-point, as on device
//	ref := chain.FilterFloat(pdmFloat)   // floating-point reference
//	gain := chain.OutputGain()           // pcm[i] ≈ gain * ref[i]
//
// # Accepted divergence
//
// [Stage2Filter.FilterInt32] computes the exact rescaled result. It does not
// replicate every intermediate rounding of the device's fixed-point filter
// routine, so device output may differ by a few LSBs.
//
// # Thread Safety
//
// Filters are immutable after construction and safe for concurrent use.
// With [WithParallel], the *Multi calls process channels concurrently.
package decimator
