// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"encoding/binary"
	"testing"

	"github.com/dsnet/tsc/internal/testutil"
)

func TestMarshal(t *testing.T) {
	samples := []testutil.Sample{{1456710000, 1.5}, {1456710060, -2.0}}
	buf := Marshal(samples)
	if len(buf) != 32 {
		t.Fatalf("record length: got %d bytes, want 32", len(buf))
	}
	if got := int64(binary.BigEndian.Uint64(buf[16:])); got != 1456710060 {
		t.Errorf("second record timestamp: got %d, want 1456710060", got)
	}
	if got := binary.BigEndian.Uint64(buf[8:]); got != 0x3ff8000000000000 {
		t.Errorf("first record value: got %016x, want 3ff8000000000000", got)
	}
}

func TestShapes(t *testing.T) {
	for name, gen := range Shapes {
		samples := gen(100)
		if len(samples) != 100 {
			t.Errorf("shape %s: got %d samples, want 100", name, len(samples))
			continue
		}
		for i := 1; i < len(samples); i++ {
			if samples[i].TS <= samples[i-1].TS {
				t.Errorf("shape %s: timestamps not increasing at sample %d", name, i)
				break
			}
		}
	}
}

// TestEncoders checks that every registered codec accepts a sample stream
// and produces output.
func TestEncoders(t *testing.T) {
	input := Marshal(Shapes["steady"](1000))
	for name, enc := range Encoders {
		output := encodeBytes(input, enc, 6)
		if len(output) == 0 {
			t.Errorf("codec %s: no output", name)
		}
	}
}

// TestGorillaRatio checks that the gorilla encoding beats the raw record
// stream by a wide margin on a steady series, where nearly every sample
// costs two bits.
func TestGorillaRatio(t *testing.T) {
	enc, ok := Encoders["gorilla"]
	if !ok {
		t.Skip("gorilla codec not registered")
	}
	input := Marshal(Shapes["steady"](1000))
	output := encodeBytes(input, enc, 0)
	if len(output) == 0 || len(output) >= len(input)/8 {
		t.Errorf("steady series: %d bytes encoded to %d, want under %d", len(input), len(output), len(input)/8)
	}
}
