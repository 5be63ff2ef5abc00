// Package gorecord provides:
//
// - Serializers derived from struct declarations (New[T]) instead of hand-written schemas
// - Recursive, partial, in-place updates of live records (Update/Save)
// - A flat error accumulator reporting every failing field at every depth in one ValidationError
// - Extraction back to wire form (Represent) and byte codecs under codec/
//
// Design policy:
// - Keep only public APIs in the root package; put format helpers under internal/.
// - Field handlers are built once by New and never mutated afterwards.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := gorecord.MustNew[Line](gorecord.Options{})
//	v, err := s.Validate(data)
//	line, err := s.Update(existing, v)
//	out, err := s.Represent(line)
//
//	b, err := codec.JSON(s).Encode(ctx, line)
package gorecord
