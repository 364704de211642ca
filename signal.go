package decimator

import (
	"fmt"
	"sync"
)

// sample is the set of element types the filters window over.
type sample interface {
	~int8 | ~int32 | ~float64
}

// padAlternating returns x preceded by p samples of the PDM idle pattern
// -1, +1, -1, ... (2*(i mod 2) - 1).
func padAlternating[T sample](x []T, p int) []T {
	padded := make([]T, p+len(x))
	for i := range p {
		padded[i] = T(2*(i%2) - 1)
	}
	copy(padded[p:], x)
	return padded
}

// padZero returns x preceded by p zeros.
func padZero[T sample](x []T, p int) []T {
	padded := make([]T, p+len(x))
	copy(padded[p:], x)
	return padded
}

// validateChannels checks that a multi-channel signal is rectangular.
func validateChannels[T any](signal [][]T) error {
	if len(signal) == 0 {
		return fmt.Errorf("%w: no channels", ErrShapeMismatch)
	}
	n := len(signal[0])
	for ch, s := range signal {
		if len(s) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrShapeMismatch, ch, len(s), n)
		}
	}
	return nil
}

// processChannels runs fn over every channel of a rectangular signal.
// When cfg.parallel is set, channels are processed concurrently.
func processChannels[In, Out any](cfg config, signal [][]In, fn func([]In) ([]Out, error)) ([][]Out, error) {
	if err := validateChannels(signal); err != nil {
		return nil, err
	}

	output := make([][]Out, len(signal))

	if !cfg.parallel || len(signal) <= 1 {
		for ch := range signal {
			result, err := fn(signal[ch])
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
		}
		return output, nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(signal))

	for ch := range signal {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()

			result, err := fn(signal[channel])
			if err != nil {
				errChan <- fmt.Errorf("channel %d: %w", channel, err)
				return
			}
			output[channel] = result
		}(ch)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}

// infallible adapts an error-free per-channel filter to processChannels.
func infallible[In, Out any](fn func([]In) []Out) func([]In) ([]Out, error) {
	return func(s []In) ([]Out, error) {
		return fn(s), nil
	}
}
