// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"reflect"
	"testing"
)

func TestDecodeBitGen(t *testing.T) {
	vectors := []struct {
		desc   string   // Description of the test
		input  string   // BitGen input string
		blocks []uint64 // Expected output blocks
		nbits  int      // Expected stream length
		valid  bool     // Expected decode success
	}{{
		"empty input",
		"", nil, 0, true,
	}, {
		"bit-string",
		"101", []uint64{0xa000000000000000}, 3, true,
	}, {
		"decimal field",
		"D14:5", []uint64{0x0014000000000000}, 14, true,
	}, {
		"hexadecimal field",
		"H8:a5", []uint64{0xa500000000000000}, 8, true,
	}, {
		"quantified bit",
		"1*65", []uint64{^uint64(0), 0x8000000000000000}, 65, true,
	}, {
		"comments and whitespace",
		"# leading comment\n 11\t# trailing comment", []uint64{0xc000000000000000}, 2, true,
	}, {
		"concatenated fields",
		"D64:0 D14:5", []uint64{0, 0x0014000000000000}, 78, true,
	}, {
		"zero-width field",
		"D0:0 1", []uint64{0x8000000000000000}, 1, true,
	}, {
		"value overflows field",
		"D3:8", nil, 0, false,
	}, {
		"field too wide",
		"H65:0", nil, 0, false,
	}, {
		"malformed token",
		"D14", nil, 0, false,
	}}

	for i, v := range vectors {
		blocks, nbits, err := DecodeBitGen(v.input)
		if v.valid != (err == nil) {
			t.Errorf("test %d (%s), unexpected result: err = %v", i, v.desc, err)
			continue
		}
		if err != nil {
			continue
		}
		if !reflect.DeepEqual(blocks, v.blocks) {
			t.Errorf("test %d (%s), blocks mismatch:\ngot  %016x\nwant %016x", i, v.desc, blocks, v.blocks)
		}
		if nbits != v.nbits {
			t.Errorf("test %d (%s), stream length: got %d, want %d", i, v.desc, nbits, v.nbits)
		}
	}
}
