// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package bvalue implements the tagged value tree used as the payload type
// throughout the tree store: every schema loads from and saves to a Value,
// and the envelope itself is framed as a Value before being handed to the
// storage engine.
package bvalue

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindArray
)

// Value is a tagged tree: nil, bool, signed/unsigned integer, float,
// string, byte string, or an array of Values. It is the one payload type
// every Schema and the Envelope serialize into and out of.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	bs   []byte
	arr  []Value
}

// Nil returns the nil Value.
func Nil() Value { return Value{kind: KindNil} }

// Bool returns a Value holding b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a Value holding a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint returns a Value holding an unsigned integer.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float returns a Value holding a floating point number.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a Value holding a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a Value holding a byte string. The slice is not copied.
func Bytes(bs []byte) Value { return Value{kind: KindBytes, bs: bs} }

// Array returns a Value holding an ordered array of Values. The slice is
// not copied.
func Array(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil variant.
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindUint:
		if v.u > 1<<63-1 {
			return 0, false
		}
		return int64(v.u), true
	}
	return 0, false
}

func (v Value) AsUint() (uint64, bool) {
	switch v.kind {
	case KindUint:
		return v.u, true
	case KindInt:
		if v.i < 0 {
			return 0, false
		}
		return uint64(v.i), true
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	}
	return 0, false
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.bs, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindUint:
		return fmt.Sprintf("%d", v.u)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindBytes:
		return fmt.Sprintf("bytes(%d)", len(v.bs))
	case KindArray:
		return fmt.Sprintf("array(%d)", len(v.arr))
	default:
		return "<invalid>"
	}
}

var mpHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.RawToString = false
	h.WriteExt = true
	return h
}()

// Encode serializes v to msgpack bytes.
func Encode(v Value) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, mpHandle)
	if err := enc.Encode(toWire(v)); err != nil {
		return nil, fmt.Errorf("bvalue: encode: %w", err)
	}
	return buf, nil
}

// Decode deserializes msgpack bytes produced by Encode back into a Value.
func Decode(data []byte) (Value, error) {
	var x any
	dec := codec.NewDecoderBytes(data, mpHandle)
	if err := dec.Decode(&x); err != nil {
		return Value{}, fmt.Errorf("bvalue: decode: %w", err)
	}
	return fromWire(x)
}

// wireTag is an explicit discriminator written alongside every encoded
// value. msgpack's compact integer forms (e.g. positive fixint) carry no
// inherent signed/unsigned tag, so the codec's naked-interface decode picks
// one Go native type per byte range by its own convention, independent of
// which Kind produced the value. Without wireTag, a small non-negative
// KindInt and the equal KindUint are indistinguishable on the wire and
// Decode(Encode(v)) == v would not hold for them. wireTag makes Kind part
// of the wire format instead of something reconstructed by guessing from
// the decoded Go type.
type wireTag = int

const (
	wireNil wireTag = iota
	wireBool
	wireInt
	wireUint
	wireFloat
	wireString
	wireBytes
	wireArray
)

// toWire converts v into a [tag, payload] pair the msgpack codec encodes
// natively, recursing into array elements.
func toWire(v Value) any {
	switch v.kind {
	case KindNil:
		return []any{wireNil, nil}
	case KindBool:
		return []any{wireBool, v.b}
	case KindInt:
		return []any{wireInt, v.i}
	case KindUint:
		return []any{wireUint, v.u}
	case KindFloat:
		return []any{wireFloat, v.f}
	case KindString:
		return []any{wireString, v.s}
	case KindBytes:
		return []any{wireBytes, v.bs}
	case KindArray:
		elems := make([]any, len(v.arr))
		for i, e := range v.arr {
			elems[i] = toWire(e)
		}
		return []any{wireArray, elems}
	default:
		return []any{wireNil, nil}
	}
}

// fromWire converts a decoded [tag, payload] pair back into a Value,
// dispatching on the explicit tag rather than on the payload's decoded Go
// type.
func fromWire(x any) (Value, error) {
	pair, ok := x.([]any)
	if !ok || len(pair) != 2 {
		return Value{}, fmt.Errorf("bvalue: malformed wire value %v", x)
	}
	tag, err := asTag(pair[0])
	if err != nil {
		return Value{}, err
	}
	payload := pair[1]

	switch tag {
	case wireNil:
		return Nil(), nil
	case wireBool:
		b, ok := payload.(bool)
		if !ok {
			return Value{}, fmt.Errorf("bvalue: wire bool payload has type %T", payload)
		}
		return Bool(b), nil
	case wireInt:
		i, err := asInt64(payload)
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case wireUint:
		u, err := asUint64(payload)
		if err != nil {
			return Value{}, err
		}
		return Uint(u), nil
	case wireFloat:
		f, err := asFloat64(payload)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case wireString:
		s, ok := payload.(string)
		if !ok {
			return Value{}, fmt.Errorf("bvalue: wire string payload has type %T", payload)
		}
		return String(s), nil
	case wireBytes:
		bs, ok := payload.([]byte)
		if !ok {
			return Value{}, fmt.Errorf("bvalue: wire bytes payload has type %T", payload)
		}
		return Bytes(bs), nil
	case wireArray:
		elems, ok := payload.([]any)
		if !ok {
			return Value{}, fmt.Errorf("bvalue: wire array payload has type %T", payload)
		}
		out := make([]Value, len(elems))
		for i, e := range elems {
			v, err := fromWire(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return Array(out), nil
	default:
		return Value{}, fmt.Errorf("bvalue: unknown wire tag %d", tag)
	}
}

// asTag recovers the tag's own numeric value regardless of which native
// integer type the codec's naked decode chose for it; the tag range (0-7)
// is itself within the ambiguous positive-fixint range, so it must be
// read this defensively too.
func asTag(x any) (wireTag, error) {
	switch t := x.(type) {
	case int64:
		return wireTag(t), nil
	case uint64:
		return wireTag(t), nil
	case int:
		return wireTag(t), nil
	default:
		return 0, fmt.Errorf("bvalue: wire tag has unexpected type %T", x)
	}
}

// asInt64 and asUint64 coerce a decoded integer payload across whichever
// native Go type the codec picked; the authoritative sign comes from the
// wire tag the caller already dispatched on, not from this type.
func asInt64(x any) (int64, error) {
	switch t := x.(type) {
	case int64:
		return t, nil
	case uint64:
		return int64(t), nil
	case int:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("bvalue: expected integer wire payload, got %T", x)
	}
}

func asUint64(x any) (uint64, error) {
	switch t := x.(type) {
	case uint64:
		return t, nil
	case int64:
		if t < 0 {
			return 0, fmt.Errorf("bvalue: negative value %d decoded for an unsigned wire payload", t)
		}
		return uint64(t), nil
	case int:
		if t < 0 {
			return 0, fmt.Errorf("bvalue: negative value %d decoded for an unsigned wire payload", t)
		}
		return uint64(t), nil
	default:
		return 0, fmt.Errorf("bvalue: expected unsigned integer wire payload, got %T", x)
	}
}

func asFloat64(x any) (float64, error) {
	switch t := x.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("bvalue: expected float wire payload, got %T", x)
	}
}
