// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gorilla

import (
	"encoding/binary"
	"math"
	"math/bits"
	"time"

	"github.com/dsnet/tsc/bitvec"
)

// Block is a single compressed block of (timestamp, value) samples.
//
// Samples are published in time order; already-written bits are never
// mutated afterward. Block is not safe for concurrent use. Size policies
// (for example, rotating to a fresh block every two hours) belong to the
// caller, which can consult Len and start a new Block when the current one
// is full.
type Block struct {
	buf bitvec.AppendVec

	t0  int64 // Base timestamp of the block
	num int   // Number of samples published

	// Last-sample state driving the delta-of-delta and XOR encodings.
	// It is valid only once num is positive.
	t     int64  // Timestamp of the last sample
	delta int64  // Delta between the last two timestamps
	val   uint64 // Bit pattern of the last value
	lead  uint   // Leading zeros of the reference meaningful window
	trail uint   // Trailing zeros of the reference meaningful window
}

// New creates a Block based at the current wall-clock second.
func New() *Block {
	return At(time.Now().Unix())
}

// At creates a Block based at the given timestamp in seconds since epoch.
func At(t0 int64) *Block {
	b := new(Block)
	b.Reset(t0)
	return b
}

// Reset discards all published samples and rebases the Block at t0,
// retaining the underlying storage.
func (b *Block) Reset(t0 int64) {
	b.buf.Reset()
	b.t0, b.num = t0, 0
	b.t, b.delta, b.val, b.lead, b.trail = 0, 0, 0, 0, 0
	b.buf.Append(64, uint64(t0))
}

// Header returns the base timestamp word of the block.
func (b *Block) Header() uint64 {
	return b.buf.GetBlock(0)
}

// Len returns the number of bits encoded so far.
func (b *Block) Len() int {
	return b.buf.Len()
}

// NumSamples returns the number of samples published onto the block.
func (b *Block) NumSamples() int {
	return b.num
}

// Data returns the underlying block storage. The slice aliases the Block's
// memory and is invalidated by the next publish.
func (b *Block) Data() []uint64 {
	return b.buf.Data()
}

// Bytes serializes the block as the storage blocks in order, with the
// most-significant byte first within each block. Trailing bits of the
// final blocks that lie beyond the cursor are zero.
func (b *Block) Bytes() []byte {
	data := b.buf.Data()
	buf := make([]byte, 8*len(data))
	for i, v := range data {
		binary.BigEndian.PutUint64(buf[8*i:], v)
	}
	return buf
}

// Publish appends value at the current wall-clock second.
func (b *Block) Publish(value float64) {
	b.PublishAt(value, time.Now().Unix())
}

// PublishAt appends a (timestamp, value) sample, encoding the timestamp
// field followed by the value field. Encoding cannot fail: a non-monotonic
// timestamp is encoded in whichever delta-of-delta branch covers it, up to
// the widest one, and NaN or Inf
// values are encoded by their bit pattern without special handling.
func (b *Block) PublishAt(value float64, ts int64) {
	if b.num == 0 {
		b.publishFirst(value, ts)
	} else {
		b.compressTime(ts)
		b.compressValue(value)
	}
	b.num++
}

// publishFirst encodes the initial sample: the delta against the base
// timestamp as a 14-bit field, then the raw 64-bit pattern of the value.
func (b *Block) publishFirst(value float64, ts int64) {
	delta := ts - b.t0
	val := math.Float64bits(value)
	b.buf.Append(firstDeltaBits, uint64(delta))
	b.buf.Append(64, val)

	b.t, b.delta, b.val = ts, delta, val
	b.lead = uint(bits.LeadingZeros64(val))
	b.trail = uint(bits.TrailingZeros64(val))
}

// compressTime encodes the delta-of-delta of ts against the last two
// timestamps. The last-sample state is updated regardless of which branch
// is taken.
func (b *Block) compressTime(ts int64) {
	d := ts - b.t
	dd := d - b.delta
	b.t, b.delta = ts, d

	if dd == 0 {
		b.buf.Append(1, 0)
		return
	}
	enc := ddEncodings[len(ddEncodings)-1]
	for _, e := range ddEncodings[:len(ddEncodings)-1] {
		if -e.rng <= dd && dd <= e.rng {
			enc = e
			break
		}
	}
	b.buf.Append(enc.npre, enc.prefix)
	b.buf.Append(enc.nval, uint64(dd)) // Masked to its low nval bits
}

// compressValue encodes the XOR of the value's bit pattern against the
// last value. A zero XOR is a single bit; otherwise the meaningful bits
// are emitted, reusing the reference window when they fit inside it.
func (b *Block) compressValue(value float64) {
	val := math.Float64bits(value)
	xor := val ^ b.val
	if xor == 0 {
		b.buf.Append(1, 0)
		return
	}
	b.val = val

	lead := uint(bits.LeadingZeros64(xor))
	trail := uint(bits.TrailingZeros64(xor))
	if b.lead <= lead && b.trail <= trail {
		// The meaningful bits fit inside the reference window. The window
		// is not updated, so later fits are measured against it as well.
		b.buf.Append(2, 0x2)
		b.buf.Append(64-b.lead-b.trail, xor>>b.trail)
		return
	}
	b.buf.Append(1, 1)
	b.buf.Append(leadingBits, uint64(lead))
	b.buf.Append(widthBits, uint64(64-lead-trail))
	b.buf.Append(64-lead-trail, xor>>trail)
	b.lead, b.trail = lead, trail
}
