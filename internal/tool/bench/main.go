// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build ignore

// Benchmark tool to compare the gorilla time-series encoding against
// general-purpose compression implementations. Individual implementations
// are referred to as codecs, and the inputs are synthetic sample series of
// various shapes, serialized as fixed 16-byte records.
//
// Example usage:
//	$ go build -o benchmark main.go
//	$ ./benchmark \
//		-tests  ratio         \
//		-codecs gorilla,std   \
//		-shapes steady,noisy  \
//		-levels 6             \
//		-sizes  1e3,10240
//
//
//	BENCHMARK: ratio
//		benchmark           gorilla ratio  delta      std ratio  delta
//		steady:6:1000              58.82x  1.00x          6.07x  0.10x
//		steady:6:10240             63.41x  1.00x          6.13x  0.10x
//		noisy:6:1000                1.92x  1.00x          2.57x  1.34x
//		noisy:6:10240               1.81x  1.00x          2.53x  1.39x
//
//
//	RUNTIME: 1m3.412912401s
package main

import (
	"flag"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/tsc/internal/tool/bench"
)

const (
	defaultLevels = "1,6,9"
	defaultSizes  = "1e3,1e4,1e5"
)

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestCompressRatio: "ratio",
	}
)

func defaultTests() string {
	var d []int
	for k := range enumToTest {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToTest[v])
	}
	return strings.Join(s, ",")
}

func defaultCodecs() string {
	m := make(map[string]bool)
	for k := range bench.Encoders {
		m[k] = true
	}
	hasGorilla := m["gorilla"]
	delete(m, "gorilla")
	var s []string
	for k := range m {
		s = append(s, k)
	}
	sort.Strings(s)
	if hasGorilla {
		s = append([]string{"gorilla"}, s...) // Ensure "gorilla" always appears first
	}
	return strings.Join(s, ",")
}

func defaultShapes() string {
	var s []string
	for k := range bench.Shapes {
		s = append(s, k)
	}
	sort.Strings(s)
	return strings.Join(s, ",")
}

func main() {
	// Setup flag arguments.
	f0 := flag.String("tests", defaultTests(), "List of different benchmark tests")
	f1 := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	f2 := flag.String("shapes", defaultShapes(), "List of series shapes to benchmark")
	f3 := flag.String("levels", defaultLevels, "List of compression levels to benchmark")
	f4 := flag.String("sizes", defaultSizes, "List of sample counts to benchmark")
	flag.Parse()

	// Parse the flag arguments.
	var sep = regexp.MustCompile("[,:]")
	var codecs, shapes []string
	var tests, levels, sizes []int
	codecs = sep.Split(*f1, -1)
	shapes = sep.Split(*f2, -1)
	for _, s := range sep.Split(*f0, -1) {
		if _, ok := testToEnum[s]; !ok {
			panic("invalid test")
		}
		tests = append(tests, testToEnum[s])
	}
	for _, s := range sep.Split(*f3, -1) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			panic("invalid level")
		}
		levels = append(levels, int(lvl))
	}
	for _, s := range sep.Split(*f4, -1) {
		var size int
		if nf, err := strconv.ParsePrefix(s, strconv.AutoParse); err == nil {
			size = int(nf)
		}
		sizes = append(sizes, size)
	}

	ts := time.Now()
	runBenchmarks(codecs, shapes, tests, levels, sizes)
	te := time.Now()
	fmt.Printf("RUNTIME: %v\n", te.Sub(ts))
}

func runBenchmarks(codecs, shapes []string, tests, levels, sizes []int) {
	// Get the list of encoders that exist.
	var encs []string
	for _, c := range codecs {
		if _, ok := bench.Encoders[c]; ok {
			encs = append(encs, c)
		}
	}

	for _, t := range tests {
		var results [][]bench.Result
		var names []string
		var title, suffix string

		// Check that we can actually do this bench.
		fmt.Printf("BENCHMARK: %s\n", enumToTest[t])
		if len(encs) == 0 {
			fmt.Println("\tSKIP: There are no encoders available.\n")
			continue
		}

		// Progress ticker.
		var cnt int
		tick := func() {
			total := len(encs) * len(shapes) * len(levels) * len(sizes)
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Printf("\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		// Perform the bench. This may take some time.
		switch t {
		case bench.TestEncodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkEncoderSuite(encs, shapes, levels, sizes, tick)
		case bench.TestCompressRatio:
			title, suffix = "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(encs, shapes, levels, sizes, tick)
		default:
			panic("unknown test")
		}

		// Print all of the results.
		printResults(results, names, encs, title, suffix)
		fmt.Println()
	}
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	// Allocate result table.
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	// Label the first row.
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	// Insert all rows.
	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	// Compute the maximum lengths.
	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	// Print padded versions of all cells.
	for _, row := range cells {
		fmt.Print("\t")
		for i, s := range row {
			switch {
			case i == 0: // Column 0
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1: // Column 1, 3, 5, 7, ...
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0: // Column 2, 4, 6, 8, ...
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Print(row[i])
		}
		fmt.Println()
	}
}
