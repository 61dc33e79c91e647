// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package testutil is a collection of testing helper methods.
package testutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand implements a deterministic pseudo-random number generator.
// This differs from math.Rand in that the exact output will be consistent
// across different versions of Go.
type Rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

func NewRand(seed int) *Rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, _ := aes.NewCipher(key[:])
	return &Rand{Block: r}
}

func (r *Rand) Uint64() uint64 {
	r.Encrypt(r.blk[:], r.blk[:])
	return binary.LittleEndian.Uint64(r.blk[:])
}

func (r *Rand) Int() int {
	return int(r.Uint64() >> 2)
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

// Sample is a single time-series observation.
type Sample struct {
	TS    int64
	Value float64
}

// Series generates n samples starting at the start timestamp, spaced step
// seconds apart with up to jitter seconds of deterministic jitter in either
// direction. Values perform a random walk with increments bounded by walk;
// a zero walk produces a constant-valued series.
func (r *Rand) Series(n int, start, step int64, jitter int, walk float64) []Sample {
	samples := make([]Sample, n)
	ts, val := start, 100.0
	for i := range samples {
		ts += step
		if jitter > 0 {
			ts += int64(r.Intn(2*jitter+1) - jitter)
		}
		if walk != 0 {
			val += walk * float64(r.Intn(2001)-1000) / 1000
		}
		samples[i] = Sample{TS: ts, Value: val}
	}
	return samples
}
