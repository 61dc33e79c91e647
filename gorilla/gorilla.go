// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package gorilla implements the Gorilla time-series block encoding.
//
// The encoding is described in section 4.1 of "Gorilla: A Fast, Scalable,
// In-Memory Time Series Database" (Pelkonen et al., VLDB 2015). A block
// holds the samples of one series over a bounded time window. The first
// 64 bits of a block are the base timestamp in seconds since the epoch.
// Timestamps are delta-of-delta encoded with variable-width fields, and
// values are encoded as the XOR of their IEEE-754 bit pattern against the
// previous value, storing only the meaningful (nonzero) window.
//
// The encoding is tuned for series that are sampled at a fixed interval
// and whose values move slowly: in the common case a sample costs two bits.
//
// References:
//	http://www.vldb.org/pvldb/vol8/p1816-teller.pdf
//	https://en.wikipedia.org/wiki/Delta_encoding
package gorilla

const (
	firstDeltaBits = 14 // Width of the first sample's timestamp delta
	leadingBits    = 5  // Width of the leading-zero count field
	widthBits      = 6  // Width of the meaningful-window width field
)

// Each delta-of-delta branch is identified by a unique prefix and covers
// dd in [-2^(n-1), +2^(n-1)], where n is the width of the two's-complement
// value field that follows. The upper bound masks to the same bit pattern
// as the lower bound; the aliasing is inherent to the encoding.
//
//	Prefix  Value bits  Total bits  Range of dd
//	0       0           1           0
//	10      7           9           -64..64
//	110     9           12          -256..256
//	1110    12          16          -2048..2048
//	1111    32          36          otherwise
var ddEncodings = []ddEncoding{
	{64, 0x2, 2, 7},
	{256, 0x6, 3, 9},
	{2048, 0xe, 4, 12},
	{0, 0xf, 4, 32}, // Catch-all branch; rng is not consulted
}

type ddEncoding struct {
	rng    int64  // Branch covers dd in [-rng, +rng]
	prefix uint64 // Prefix identifying the branch
	npre   uint   // Width of the prefix
	nval   uint   // Width of the value field
}
