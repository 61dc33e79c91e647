// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitvec

import (
	"github.com/dsnet/golib/errs"

	"github.com/dsnet/tsc/internal"
)

var errWidth = internal.Error("bitvec: append width out of range")

// AppendVec is an append-only cursor over a Vec.
//
// Every bit below the cursor has been written; bits at or above it are zero
// until written. A partial append places its bits at the high end of the
// 64-bit block window, so the low bits of the window land past the cursor
// as zeros and are overwritten by the next append. This is why reads never
// observe garbage past the cursor.
//
// The zero value is an empty vector ready for use.
type AppendVec struct {
	vec Vec
	len int
}

// Len returns the current cursor position, which is the number of bits
// appended so far.
func (v *AppendVec) Len() int {
	return v.len
}

// Reserve grows the capacity of the vector to hold at least nbits bits.
func (v *AppendVec) Reserve(nbits int) {
	v.vec.Reserve(nbits)
}

// Reset truncates the vector to zero bits, retaining the storage.
func (v *AppendVec) Reset() {
	v.vec.Reset()
	v.len = 0
}

// Append writes the low nbits of data at the cursor, most-significant bit
// first, and advances the cursor by nbits. It panics if nbits exceeds 64.
func (v *AppendVec) Append(nbits uint, data uint64) {
	errs.Assert(nbits <= 64, errWidth)
	switch nbits {
	case 0:
		// Do nothing.
	case 1:
		v.vec.SetBit(v.len, data&1 == 1)
		v.len++
	case 64:
		v.vec.SetBlock(v.len, data)
		v.len += 64
	default:
		mask := ^uint64(0) >> (64 - nbits)
		v.vec.SetBlock(v.len, (data&mask)<<(64-nbits))
		v.len += int(nbits)
	}
}

// GetBit reports the bit at index i.
func (v *AppendVec) GetBit(i int) bool {
	return v.vec.GetBit(i)
}

// GetBlock returns the 64 bits starting at index i.
func (v *AppendVec) GetBlock(i int) uint64 {
	return v.vec.GetBlock(i)
}

// Data returns the underlying block storage. The slice aliases the vector's
// memory and is invalidated by any mutating call.
func (v *AppendVec) Data() []uint64 {
	return v.vec.Data()
}
