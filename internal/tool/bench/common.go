// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the gorilla time-series encoding against
// general-purpose compression implementations with respect to encode speed
// and compression ratio. Individual implementations are referred to as
// codecs and operate on a raw serialization of synthetic sample series.
package bench

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/tsc/internal/testutil"
)

const (
	TestEncodeRate = iota
	TestCompressRatio
)

type Encoder func(io.Writer, int) io.WriteCloser

var Encoders map[string]Encoder

func RegisterEncoder(name string, enc Encoder) {
	if Encoders == nil {
		Encoders = make(map[string]Encoder)
	}
	Encoders[name] = enc
}

// Shapes generate the synthetic series available to the benchmarks. Each
// shape produces n samples of a distinct character: a fixed-interval
// constant series, a jittered slow-moving series, and an irregular series
// with fast-moving values.
var Shapes = map[string]func(n int) []testutil.Sample{
	"steady": func(n int) []testutil.Sample {
		return testutil.NewRand(0).Series(n, 1456710000, 60, 0, 0)
	},
	"jitter": func(n int) []testutil.Sample {
		return testutil.NewRand(1).Series(n, 1456710000, 60, 5, 0.25)
	},
	"noisy": func(n int) []testutil.Sample {
		return testutil.NewRand(2).Series(n, 1456710000, 60, 30, 50)
	},
}

// Marshal serializes samples as fixed 16-byte records: the timestamp and
// the IEEE-754 bit pattern of the value, both big-endian. This is the raw
// representation handed to every codec.
func Marshal(samples []testutil.Sample) []byte {
	buf := make([]byte, 16*len(samples))
	for i, s := range samples {
		binary.BigEndian.PutUint64(buf[16*i:], uint64(s.TS))
		binary.BigEndian.PutUint64(buf[16*i+8:], math.Float64bits(s.Value))
	}
	return buf
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to primary benchmark
}

// BenchmarkEncoder benchmarks a single encoder on the given input data using
// the selected compression level and reports the result.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(ioutil.Discard, lvl)
			_, err := io.Copy(wr, bytes.NewReader(input))
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

// BenchmarkEncoderSuite runs the encode-rate benchmark across all encoder
// implementations, shapes, levels, and sizes.
//
// The values returned have the following structure:
//	results: [len(shapes)*len(levels)*len(sizes)][len(encs)]Result
//	names:   [len(shapes)*len(levels)*len(sizes)]string
func BenchmarkEncoderSuite(encs, shapes []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(encs, shapes, levels, sizes, tick,
		func(input []byte, enc string, lvl int) Result {
			result := BenchmarkEncoder(input, Encoders[enc], lvl)
			if result.N == 0 {
				return Result{}
			}
			us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
			rate := float64(result.Bytes) / us
			return Result{R: rate}
		})
}

// BenchmarkRatioSuite runs the compression-ratio benchmark across all
// encoder implementations, shapes, levels, and sizes. The result structure
// matches BenchmarkEncoderSuite.
func BenchmarkRatioSuite(encs, shapes []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(encs, shapes, levels, sizes, tick,
		func(input []byte, enc string, lvl int) Result {
			output := encodeBytes(input, Encoders[enc], lvl)
			if output == nil {
				return Result{}
			}
			ratio := float64(len(input)) / float64(len(output))
			return Result{R: ratio}
		})
}

type benchFunc func(input []byte, codec string, level int) Result

func benchmarkSuite(codecs, shapes []string, levels, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	// Allocate buffers for the result.
	d0 := len(shapes) * len(levels) * len(sizes)
	d1 := len(codecs)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names := make([]string, d0)

	// Run the benchmark for every codec, shape, level, and size.
	var i int
	for _, s := range shapes {
		for _, l := range levels {
			for _, n := range sizes {
				gen, ok := Shapes[s]
				name := getName(s, l, n)
				var input []byte
				if ok {
					input = Marshal(gen(n))
				}
				for j, c := range codecs {
					if tick != nil {
						tick()
					}
					names[i] = name
					if input != nil {
						results[i][j] = run(input, c, l)
					}
					results[i][j].D = results[i][j].R / results[i][0].R
				}
				i++
			}
		}
	}
	return results, names
}

// encodeBytes runs input through a single codec and returns the compressed
// output, or nil if the codec fails.
func encodeBytes(input []byte, enc Encoder, lvl int) []byte {
	buf := new(bytes.Buffer)
	wr := enc(buf, lvl)
	if _, err := io.Copy(wr, bytes.NewReader(input)); err != nil {
		return nil
	}
	if err := wr.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func getName(s string, l, n int) string {
	sn := strings.Replace(strconv.FormatPrefix(float64(n), strconv.Base1024, 2), ".00", "", -1)
	return fmt.Sprintf("%s:%d:%s", s, l, sn)
}
