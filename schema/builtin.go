// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package schema

import (
	"math"

	"github.com/iliakonnov/lmtreedb/bvalue"
	"github.com/iliakonnov/lmtreedb/internal/errs"
)

// Built-in v1 schemas for the primitive types every tree store needs,
// final (no prev/next peer). Narrower integer/float loads range-check
// against the wider stored representation and fail InvalidFormat on
// overflow, since a load is a format check: it must reject a value the
// declared type cannot hold, unlike a schema author's upgrade/downgrade,
// which is allowed to be lossy by design.

// Unit is the schema for the empty/absent value, used as the root
// envelope's initial payload.
var Unit = MustDefine[struct{}](
	"unit", 1,
	func(v bvalue.Value) (struct{}, error) {
		if !v.IsNil() {
			return struct{}{}, errs.InvalidFormatf("unit: expected nil, got %v", v)
		}
		return struct{}{}, nil
	},
	func(struct{}) (bvalue.Value, error) {
		return bvalue.Nil(), nil
	},
)

// Bool is the schema for bool.
var Bool = MustDefine[bool](
	"bool", 1,
	func(v bvalue.Value) (bool, error) {
		b, ok := v.AsBool()
		if !ok {
			return false, errs.InvalidFormatf("bool: expected bool, got %v", v)
		}
		return b, nil
	},
	func(b bool) (bvalue.Value, error) {
		return bvalue.Bool(b), nil
	},
)

// String is the schema for string.
var String = MustDefine[string](
	"string", 1,
	func(v bvalue.Value) (string, error) {
		s, ok := v.AsString()
		if !ok {
			return "", errs.InvalidFormatf("string: expected string, got %v", v)
		}
		return s, nil
	},
	func(s string) (bvalue.Value, error) {
		return bvalue.String(s), nil
	},
)

// Bytes is the schema for []byte.
var Bytes = MustDefine[[]byte](
	"bytes", 1,
	func(v bvalue.Value) ([]byte, error) {
		b, ok := v.AsBytes()
		if !ok {
			return nil, errs.InvalidFormatf("bytes: expected bytes, got %v", v)
		}
		return b, nil
	},
	func(b []byte) (bvalue.Value, error) {
		return bvalue.Bytes(b), nil
	},
)

// Int64 is the schema for int64.
var Int64 = MustDefine[int64](
	"int64", 1,
	func(v bvalue.Value) (int64, error) {
		i, ok := v.AsInt()
		if !ok {
			return 0, errs.InvalidFormatf("int64: expected integer, got %v", v)
		}
		return i, nil
	},
	func(i int64) (bvalue.Value, error) {
		return bvalue.Int(i), nil
	},
)

// Uint64 is the schema for uint64.
var Uint64 = MustDefine[uint64](
	"uint64", 1,
	func(v bvalue.Value) (uint64, error) {
		u, ok := v.AsUint()
		if !ok {
			return 0, errs.InvalidFormatf("uint64: expected unsigned integer, got %v", v)
		}
		return u, nil
	},
	func(u uint64) (bvalue.Value, error) {
		return bvalue.Uint(u), nil
	},
)

// Float64 is the schema for float64.
var Float64 = MustDefine[float64](
	"float64", 1,
	func(v bvalue.Value) (float64, error) {
		f, ok := v.AsFloat()
		if !ok {
			return 0, errs.InvalidFormatf("float64: expected float, got %v", v)
		}
		return f, nil
	},
	func(f float64) (bvalue.Value, error) {
		return bvalue.Float(f), nil
	},
)

// Float32 is the schema for float32, range-checked against float64 on
// load.
var Float32 = MustDefine[float32](
	"float32", 1,
	func(v bvalue.Value) (float32, error) {
		f, ok := v.AsFloat()
		if !ok {
			return 0, errs.InvalidFormatf("float32: expected float, got %v", v)
		}
		if f > math.MaxFloat32 || f < -math.MaxFloat32 {
			return 0, errs.InvalidFormatf("float32: value %g overflows float32", f)
		}
		return float32(f), nil
	},
	func(f float32) (bvalue.Value, error) {
		return bvalue.Float(float64(f)), nil
	},
)

func rangeCheckedIntSchema[T ~int8 | ~int16 | ~int32](typeName string, lo, hi int64) *Schema[T] {
	return MustDefine[T](
		typeName, 1,
		func(v bvalue.Value) (T, error) {
			i, ok := v.AsInt()
			if !ok {
				return 0, errs.InvalidFormatf("%s: expected integer, got %v", typeName, v)
			}
			if i < lo || i > hi {
				return 0, errs.InvalidFormatf("%s: value %d out of range [%d, %d]", typeName, i, lo, hi)
			}
			return T(i), nil
		},
		func(t T) (bvalue.Value, error) {
			return bvalue.Int(int64(t)), nil
		},
	)
}

func rangeCheckedUintSchema[T ~uint8 | ~uint16 | ~uint32](typeName string, hi uint64) *Schema[T] {
	return MustDefine[T](
		typeName, 1,
		func(v bvalue.Value) (T, error) {
			u, ok := v.AsUint()
			if !ok {
				return 0, errs.InvalidFormatf("%s: expected unsigned integer, got %v", typeName, v)
			}
			if u > hi {
				return 0, errs.InvalidFormatf("%s: value %d out of range [0, %d]", typeName, u, hi)
			}
			return T(u), nil
		},
		func(t T) (bvalue.Value, error) {
			return bvalue.Uint(uint64(t)), nil
		},
	)
}

// Int8, Int16, Int32 are schemas for the narrower signed integer types,
// range-checked against the int64 wire representation on load.
var (
	Int8  = rangeCheckedIntSchema[int8]("int8", math.MinInt8, math.MaxInt8)
	Int16 = rangeCheckedIntSchema[int16]("int16", math.MinInt16, math.MaxInt16)
	Int32 = rangeCheckedIntSchema[int32]("int32", math.MinInt32, math.MaxInt32)
)

// Uint8, Uint16, Uint32 are schemas for the narrower unsigned integer
// types, range-checked against the uint64 wire representation on load.
var (
	Uint8  = rangeCheckedUintSchema[uint8]("uint8", math.MaxUint8)
	Uint16 = rangeCheckedUintSchema[uint16]("uint16", math.MaxUint16)
	Uint32 = rangeCheckedUintSchema[uint32]("uint32", math.MaxUint32)
)
