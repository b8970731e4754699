package transcript

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/V4T54L/matterlog/internal/domain"
)

// Reader streams the entries of one transcript file in file order.
// It is single-pass; reopen the file to read it again.
type Reader struct {
	path    string
	closer  io.Closer
	src     *bufio.Reader
	done    bool
	ordinal int
	entry   domain.TranscriptEntry
	err     error
}

// Open opens the transcript at path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript %s: %w", path, err)
	}
	r := NewReader(f, path)
	r.closer = f
	return r, nil
}

// NewReader reads transcript lines from src. name is used in error messages.
// Lines have no length limit.
func NewReader(src io.Reader, name string) *Reader {
	return &Reader{path: name, src: bufio.NewReader(src)}
}

// Next advances to the next entry. It returns false at end of input or on the
// first malformed line; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.err != nil || r.done {
		return false
	}
	text, err := r.src.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			r.err = fmt.Errorf("error reading transcript %s: %w", r.path, err)
			return false
		}
		// a last line without a terminator is still a record
		r.done = true
		if text == "" {
			return false
		}
	}

	r.ordinal++
	line, err := ParseLine(text)
	if err != nil {
		r.err = fmt.Errorf("%s line %d: %w", r.path, r.ordinal, err)
		return false
	}
	r.entry = domain.TranscriptEntry{Ordinal: r.ordinal, Line: line}
	return true
}

// Entry returns the entry produced by the last successful Next.
func (r *Reader) Entry() domain.TranscriptEntry {
	return r.entry
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// All yields every entry of the transcript at path. Iteration stops after the
// first error, which is yielded with a zero entry.
func All(path string) iter.Seq2[domain.TranscriptEntry, error] {
	return func(yield func(domain.TranscriptEntry, error) bool) {
		r, err := Open(path)
		if err != nil {
			yield(domain.TranscriptEntry{}, err)
			return
		}
		defer r.Close()

		for r.Next() {
			if !yield(r.Entry(), nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(domain.TranscriptEntry{}, err)
		}
	}
}

// ReadAll loads a whole transcript. Any malformed line fails the read.
func ReadAll(path string) ([]domain.TranscriptEntry, error) {
	var entries []domain.TranscriptEntry
	for entry, err := range All(path) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
