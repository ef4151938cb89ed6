// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling. The track loader uses it to
// bring a vocal track to the instrumental track's rate when their source
// files disagree.
//
// Example:
//
//	r := resample.New(48000, 44100, 2)
//	converted := r.Apply(samples)
package resample
