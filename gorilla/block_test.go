// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gorilla

import (
	"math"
	"testing"

	"github.com/dsnet/tsc/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// TestBlockEncode tests that the encoded stream matches the expected output
// exactly. The expected streams are scripted in the BitGen format so that
// each emitted field is visible; see internal/testutil.
func TestBlockEncode(t *testing.T) {
	vectors := []struct {
		desc    string            // Description of the test
		base    int64             // Base timestamp of the block
		samples []testutil.Sample // Samples published onto the block
		output  string            // Expected bit stream in BitGen format
	}{{
		"empty block",
		1456710000, nil,
		"D64:1456710000",
	}, {
		"single sample",
		10, []testutil.Sample{{5, 1.0}}, // Delta may be negative
		"D64:10 D14:16379 H64:3FF0000000000000",
	}, {
		"steady series, constant value",
		0, []testutil.Sample{{60, 1.5}, {120, 1.5}, {180, 1.5}},
		`D64:0
		D14:60 H64:3FF8000000000000  # First sample
		0 0                          # dd = 0, XOR = 0
		0 0`,
	}, {
		"four samples, all branches of the value encoding",
		0, []testutil.Sample{{5, 2.0}, {10, 4.0}, {20, 4.0}, {25, 2.0}},
		`D64:0
		D14:5 H64:4000000000000000   # First sample
		0                            # dd = 0
		1 D5:11 D6:1 1               # New window: lead 11, width 1
		10 D7:5                      # dd = +5
		0                            # XOR = 0
		10 D7:123                    # dd = -5
		10 1                         # Window reused: width 1`,
	}, {
		"delta-of-delta branch boundaries",
		0, []testutil.Sample{{1, 1.0}, {2, 1.0}, {68, 1.0}, {70, 1.0}},
		`D64:0
		D14:1 H64:3FF0000000000000
		0 0                          # dd = 0
		110 D9:65 0                  # dd = +65 exceeds the 7-bit branch
		10 D7:64 0                   # dd = -64 masks to 1000000`,
	}, {
		"wide deltas and non-monotonic timestamps",
		100, []testutil.Sample{{100, 1.0}, {10000, 1.0}, {100, 1.0}},
		`D64:100
		D14:0 H64:3FF0000000000000
		1111 D32:9900 0
		1111 D32:4294947496 0        # dd = -19800`,
	}, {
		"meaningful window reuse",
		0, []testutil.Sample{{1, 2.0}, {2, 3.0}, {3, 2.0}},
		`D64:0
		D14:1 H64:4000000000000000
		0 1 D5:12 D6:1 1             # New window: lead 12, width 1
		0 10 1                       # Same window on the way back`,
	}, {
		"full-width XOR window",
		0, []testutil.Sample{
			{1, math.Float64frombits(0x0000000000000001)},
			{2, math.Float64frombits(0x8000000000000000)},
		},
		`D64:0
		D14:1 H64:0000000000000001
		0                            # dd = 0
		1 D5:0 D6:0                  # Width 64 masks to 0
		H64:8000000000000001`,
	}, {
		"NaN is encoded by its bit pattern",
		0, []testutil.Sample{
			{1, math.Float64frombits(0x7FF8000000000001)},
			{2, math.Float64frombits(0x7FF8000000000001)},
		},
		"D64:0 D14:1 H64:7FF8000000000001 0 0",
	}}

	for i, v := range vectors {
		blk := At(v.base)
		for _, s := range v.samples {
			blk.PublishAt(s.Value, s.TS)
		}
		want, nbits, err := testutil.DecodeBitGen(v.output)
		if err != nil {
			t.Fatalf("test %d (%s), invalid BitGen vector: %v", i, v.desc, err)
		}

		got := blk.Data()
		if len(got) < len(want) {
			t.Errorf("test %d (%s), stream too short: got %d blocks, want >= %d", i, v.desc, len(got), len(want))
			continue
		}
		assert.Equal(t, want, got[:len(want)], "test %d (%s), encoded stream", i, v.desc)
		for _, x := range got[len(want):] {
			assert.Equal(t, uint64(0), x, "test %d (%s), trailing storage", i, v.desc)
		}
		assert.Equal(t, nbits, blk.Len(), "test %d (%s), stream length", i, v.desc)
		assert.Equal(t, len(v.samples), blk.NumSamples(), "test %d (%s), sample count", i, v.desc)
	}
}

func TestHeader(t *testing.T) {
	for _, base := range []int64{0, 25, 1456710000, -5} {
		blk := At(base)
		assert.Equal(t, uint64(base), blk.Header())
		blk.PublishAt(3.14, base+1)
		blk.PublishAt(2.71, base+2)
		assert.Equal(t, uint64(base), blk.Header(), "header changed by publishing")
	}
}

func TestLen(t *testing.T) {
	blk := At(0)
	assert.Equal(t, 64, blk.Len())
	blk.PublishAt(1.5, 60)
	assert.Equal(t, 64+14+64, blk.Len())
	blk.PublishAt(1.5, 120)
	assert.Equal(t, 64+14+64+2, blk.Len())
}

// TestDeterminism checks that replaying a fixed sample sequence produces a
// bit-identical stream, both on a fresh Block and on a reset one.
func TestDeterminism(t *testing.T) {
	samples := testutil.NewRand(11).Series(500, 1456710000, 60, 3, 0.5)

	encode := func(blk *Block) []uint64 {
		for _, s := range samples {
			blk.PublishAt(s.Value, s.TS)
		}
		return blk.Data()
	}

	first := append([]uint64(nil), encode(At(1456710000))...)
	assert.Equal(t, first, encode(At(1456710000)))

	blk := At(42)
	blk.PublishAt(1.0, 43)
	blk.Reset(1456710000)
	assert.Equal(t, first, encode(blk), "stream after Reset differs")
}

func TestPublish(t *testing.T) {
	blk := New()
	blk.Publish(1.0)
	assert.Equal(t, 1, blk.NumSamples())
	assert.Equal(t, 64+14+64, blk.Len())
}

func TestBytes(t *testing.T) {
	blk := At(0x0102030405060708)
	got := blk.Bytes()
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.Equal(t, want, got)

	blk.PublishAt(1.5, 0x0102030405060708+5)
	assert.Equal(t, 8*len(blk.Data()), len(blk.Bytes()))
}

func BenchmarkPublishAt(b *testing.B) {
	samples := testutil.NewRand(5).Series(1024, 1456710000, 60, 2, 0.25)
	blk := At(1456710000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%1024 == 0 {
			blk.Reset(1456710000)
		}
		s := samples[i%1024]
		blk.PublishAt(s.Value, s.TS)
	}
}
