// ABOUTME: Pull iterator over streamed chat chunks.
// ABOUTME: Text returns the full accumulated reply so far.
package coach

import (
	"strings"
)

// ChunkSource yields raw text fragments of a streamed reply.
type ChunkSource interface {
	Next() bool
	Chunk() string
	Err() error
	Close() error
}

// Stream accumulates chunks from a source. Call Next until it returns false,
// then check Err.
type Stream struct {
	src    ChunkSource
	buf    strings.Builder
	err    error
	done   bool
	onDone func(full string)
}

// NewStream wraps src. onDone, if set, runs once with the full reply after the
// source finishes without error.
func NewStream(src ChunkSource, onDone func(full string)) *Stream {
	return &Stream{src: src, onDone: onDone}
}

// Next advances to the next chunk.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	if s.src.Next() {
		s.buf.WriteString(s.src.Chunk())
		return true
	}
	s.done = true
	s.err = classify(s.src.Err())
	if s.err == nil && s.onDone != nil {
		s.onDone(s.buf.String())
	}
	return false
}

// Text returns everything received so far.
func (s *Stream) Text() string {
	return s.buf.String()
}

// Err returns the error that ended the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying connection.
func (s *Stream) Close() error {
	return s.src.Close()
}

// SliceSource replays fixed chunks, optionally ending with an error.
type SliceSource struct {
	Chunks []string
	Fail   error
	pos    int
	closed bool
}

// Next advances to the next chunk.
func (s *SliceSource) Next() bool {
	if s.closed || s.pos >= len(s.Chunks) {
		return false
	}
	s.pos++
	return true
}

// Chunk returns the current chunk.
func (s *SliceSource) Chunk() string {
	return s.Chunks[s.pos-1]
}

// Err returns Fail once all chunks are consumed.
func (s *SliceSource) Err() error {
	return s.Fail
}

// Close stops the source.
func (s *SliceSource) Close() error {
	s.closed = true
	return nil
}
