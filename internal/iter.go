package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// IterSeqBackward yields the elements of s from last to first, skipping
// any element rejected by keep. A nil keep yields everything.
func IterSeqBackward[T any](s []T, keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := len(s) - 1; n >= 0; n-- {
			if keep != nil && !keep(s[n]) {
				continue
			}
			if !yield(s[n]) {
				return
			}
		}
	}
}
