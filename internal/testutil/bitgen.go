// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string into 64-bit blocks.
//
// The BitGen format allows bit-streams to be generated from a series of
// tokens describing bits in the resulting stream. The format is designed
// for testing purposes by aiding a human in the manual scripting of
// compressed streams from individual bit-strings. It is designed to be
// relatively succinct and to allow the presence of comments to encode
// authorial intent.
//
// The format consists of a series of tokens separated by white space of any
// kind. The '#' character is used for commenting, so any bytes on a given
// line that appear after it are ignored. Bits are always packed MSB-first:
// the first bit of the stream is the most-significant bit of block 0, and
// bits fill each block left-to-right, matching the bitvec layout.
//
// A token of the pattern "[01]{1,64}" forms a bit-string (e.g. 11010) whose
// left-most bit is written first to the resulting stream.
//
// A token of the pattern "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}"
// represents either a decimal value or a hexadecimal value, respectively.
// The first number indicates the bit-length of the field, between 0 and 64,
// and the second number is the unsigned value, which must fit within the
// bit-length. The most-significant bit of the field is written first.
//
// A token decorator of the pattern "[*][0-9]+" may trail any token. This is
// a quantifier decorator which indicates that the current token is to be
// repeated some number of times. It is used to quickly replicate data.
//
// The decoded stream is padded with zero bits up to the next block edge.
// The returned count reports the unpadded number of bits in the stream.
func DecodeBitGen(str string) ([]uint64, int, error) {
	// Tokenize the input string by removing comments and superfluous spaces.
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		toks = append(toks, strings.Fields(s)...)
	}

	var blocks []uint64
	var nbits int
	appendBits := func(v uint64, n int) {
		for i := n - 1; i >= 0; i-- {
			if nbits>>6 == len(blocks) {
				blocks = append(blocks, 0)
			}
			if v>>uint(i)&1 == 1 {
				blocks[nbits>>6] |= 1 << (63 - uint(nbits&63))
			}
			nbits++
		}
	}

	for _, t := range toks {
		// Check for quantifier decorators.
		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			n, err := strconv.Atoi(t[i+1:])
			if err != nil {
				return nil, 0, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = t[:i], n
		}

		switch {
		case reBin.MatchString(t):
			// Handle binary tokens.
			var v uint64
			for _, b := range t {
				v = v<<1 | uint64(b-'0')
			}
			for i := 0; i < rep; i++ {
				appendBits(v, len(t))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			// Handle decimal and hexadecimal tokens.
			i := strings.IndexByte(t, ':')
			base := 10
			if t[0] == 'H' {
				base = 16
			}
			n, err1 := strconv.Atoi(t[1:i])
			v, err2 := strconv.ParseUint(t[i+1:], base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, 0, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v>>uint(n) != 0 {
				return nil, 0, errors.New("testutil: integer overflow on token: " + t)
			}
			for i := 0; i < rep; i++ {
				appendBits(v, n)
			}
		default:
			// Handle invalid tokens.
			return nil, 0, errors.New("testutil: invalid token: " + t)
		}
	}
	return blocks, nbits, nil
}

// MustDecodeBitGen must decode a BitGen formatted string or else panics.
func MustDecodeBitGen(str string) []uint64 {
	blocks, _, err := DecodeBitGen(str)
	if err != nil {
		panic(err)
	}
	return blocks
}
