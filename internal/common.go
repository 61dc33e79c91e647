// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal is a collection of common definitions shared by the
// time-series compression packages.
//
// For performance reasons, these packages lack strong error checking and
// require that the caller ensure that strict invariants are kept.
package internal

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "tsc: " + string(e) }
