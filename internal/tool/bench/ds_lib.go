// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build !no_ds_lib

package bench

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/dsnet/tsc/gorilla"
)

func init() {
	// The gorilla encoder has no level knob; the level argument is ignored.
	RegisterEncoder("gorilla",
		func(w io.Writer, lvl int) io.WriteCloser {
			return &gorillaWriter{wr: w}
		})
}

// gorillaWriter adapts a gorilla.Block to the codec interface by parsing
// the 16-byte sample records produced by Marshal. The block is based at the
// first sample's timestamp and serialized on Close.
type gorillaWriter struct {
	wr  io.Writer
	blk *gorilla.Block
	buf []byte
}

func (gw *gorillaWriter) Write(buf []byte) (int, error) {
	gw.buf = append(gw.buf, buf...)
	for len(gw.buf) >= 16 {
		ts := int64(binary.BigEndian.Uint64(gw.buf[0:]))
		val := math.Float64frombits(binary.BigEndian.Uint64(gw.buf[8:]))
		if gw.blk == nil {
			gw.blk = gorilla.At(ts)
		}
		gw.blk.PublishAt(val, ts)
		gw.buf = gw.buf[16:]
	}
	return len(buf), nil
}

func (gw *gorillaWriter) Close() error {
	if gw.blk == nil {
		return nil
	}
	_, err := gw.wr.Write(gw.blk.Bytes())
	return err
}
