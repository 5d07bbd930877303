package png

import (
	"fmt"
	"iter"
	"runtime"
	"sync"
)

// Encoder turns a domain value into the complete wire form of one chunk.
type Encoder[T any] interface {
	Encode(v T) ([]byte, error)
}

// Matcher decides from the chunk type and raw payload alone whether a
// chunk belongs to a codec. It must not decompress.
type Matcher interface {
	Match(c Chunk) bool
}

// Decoder turns a matching chunk back into a domain value.
type Decoder[T any] interface {
	Matcher
	Decode(c Chunk) (T, error)
}

// Codec is the full capability set of a chunk kind.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]
}

// EncodeAll encodes values concurrently with at most workers goroutines
// (GOMAXPROCS when workers <= 0). Each encode only reads its own value.
// Results are returned in input order once every worker has finished; the
// first failure in input order is reported.
func EncodeAll[T any](enc Encoder[T], workers int, values []T) ([][]byte, error) {
	out := make([][]byte, len(values))
	if len(values) == 1 {
		b, err := enc.Encode(values[0])
		if err != nil {
			return nil, fmt.Errorf("encode value 0: %w", err)
		}
		out[0] = b
		return out, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	errs := make([]error, len(values))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range values {
		sem <- struct{}{}
		wg.Go(func() {
			defer func() { <-sem }()
			out[i], errs[i] = enc.Encode(values[i])
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("encode value %d: %w", i, err)
		}
	}
	return out, nil
}

// InsertValues encodes values in parallel and splices the results into
// img in input order. img is only touched after every encode succeeded.
func InsertValues[T any](img *Image, enc Encoder[T], workers int, values ...T) error {
	encoded, err := EncodeAll(enc, workers, values)
	if err != nil {
		return err
	}
	return img.Insert(encoded...)
}

// Records returns a lazy sequence of the values decoded from every chunk
// in img that dec matches, scanning the whole stream. The first scan or
// decode error is yielded and ends the sequence.
func Records[T any](img *Image, dec Decoder[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for c, err := range img.Chunks() {
			if err != nil {
				yield(zero, err)
				return
			}
			if !dec.Match(c) {
				continue
			}
			v, err := dec.Decode(c)
			if err != nil {
				yield(zero, fmt.Errorf("%s chunk at offset %d: %w", c.Type(), c.Offset(), err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DeleteMatching removes every chunk m matches.
func DeleteMatching(img *Image, m Matcher) (int, error) {
	return img.Delete(m.Match)
}
