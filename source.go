// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import "io"

// Blob is a fixed-size, randomly sliceable host resource, such as a browser
// File. Slice requests the bytes in [start, end) and returns a future for
// them; an error from Slice itself means the request could not be issued.
type Blob interface {
	Size() int64
	Slice(start, end int64) (Future[[]byte], error)
}

// Source adapts a Blob into a pollable sequential reader.
//
// Read is a poll: it returns (0, ErrWouldBlock) while a slice request is in
// flight and must be called again, with the same buffer, after Ready fires.
// Exactly one slice request is in flight at a time. At end of stream Read
// returns (0, io.EOF) without calling the host.
//
// A Source is used by one caller at a time; it needs no Close.
type Source struct {
	blob    Blob
	size    int64
	offset  int64
	want    int64 // length of the in-flight range
	pending PendingSlot[[]byte]
}

// NewSource returns a Source reading blob from offset 0. The size is taken
// once and never renegotiated.
func NewSource(blob Blob) *Source {
	size := blob.Size()
	if size < 0 {
		size = 0
	}
	return &Source{blob: blob, size: size}
}

// Size returns the total byte length of the underlying blob.
func (s *Source) Size() int64 { return s.size }

// Offset returns the next unread position.
func (s *Source) Offset() int64 { return s.offset }

// Remaining returns the number of bytes not yet read.
func (s *Source) Remaining() int64 { return s.size - s.offset }

// Ready returns a channel closed when the in-flight slice settles, or an
// already closed channel when nothing is in flight.
func (s *Source) Ready() <-chan struct{} { return s.pending.Ready() }

// Read polls for the next bytes of the blob.
//
// Results:
//   - (n, nil): n bytes were copied into p[:n] and the offset advanced by n.
//   - (0, ErrWouldBlock): a slice request is in flight; poll again later.
//   - (0, io.EOF): the whole blob has been read.
//   - (0, *HostCallError): the host failed the slice; the Source stays usable.
//
// An empty p returns (0, nil) and leaves any in-flight request untouched.
func (s *Source) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.pending.Empty() {
		if s.offset >= s.size {
			return 0, io.EOF
		}
		end := min(s.offset+int64(len(p)), s.size)
		f, err := s.blob.Slice(s.offset, end)
		if err != nil {
			return 0, hostCallError("slice", err)
		}
		if f == nil {
			return 0, &HostCallError{Op: "slice", Err: io.ErrUnexpectedEOF}
		}
		s.want = end - s.offset
		s.pending.Submit(f)
		return 0, ErrWouldBlock
	}

	data, err := s.pending.Poll()
	if IsWouldBlock(err) {
		return 0, ErrWouldBlock
	}
	want := s.want
	s.want = 0
	if err != nil {
		return 0, hostCallError("slice", err)
	}
	if int64(len(data)) > want {
		data = data[:want]
	}
	if len(data) == 0 {
		return 0, &HostCallError{Op: "slice", Err: io.ErrUnexpectedEOF}
	}
	n := copy(p, data)
	s.offset += int64(n)
	return n, nil
}
