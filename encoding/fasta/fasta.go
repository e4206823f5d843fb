// Package fasta reads and writes FASTA sequence records. Unlike typical
// reference readers it preserves the full header: the sequence name is the
// stretch of characters up to the first space, and any text after the space
// is kept as a free-form comment. Sequence case and 'N' characters are also
// preserved. For example:
//
// >0 91 26
// ACGTAC
// GAGGAC
//
// parses to ID "0", comment "91 26", sequence "ACGTACGAGGAC".
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const bufferInitSize = 1024 * 1024 * 300 // 300 MB

// ErrInvalid is returned when the input is not FASTA-formatted.
var ErrInvalid = errors.New("invalid FASTA file")

// A Record is one named sequence.
type Record struct {
	// ID is the header text up to the first space, without the '>'.
	ID string
	// Comment is the header text after the first space, or "".
	Comment string
	// Seq is the concatenation of the record's sequence lines.
	Seq string
}

var errEOF = errors.New("eof")

// Scanner reads FASTA records in file order. The Scan method returns the
// next record, returning a boolean indicating whether the read succeeded.
// Scanners are not threadsafe.
type Scanner struct {
	b      *bufio.Scanner
	header string
	err    error
}

// NewScanner constructs a Scanner that reads FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, bufferInitSize)
	return &Scanner{b: b}
}

// Scan the next record into rec. Scan returns a boolean indicating whether
// the scan succeeded. Once Scan returns false, it never returns true again.
// Upon completion, the user should check the Err method to determine whether
// scanning stopped because of an error or because the end of the stream was
// reached.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	for s.header == "" {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err == nil {
				s.err = errEOF
			}
			return false
		}
		line := s.b.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			s.err = errors.Wrap(ErrInvalid, "sequence data before first header")
			return false
		}
		s.header = line
	}
	header := s.header
	s.header = ""
	var seq strings.Builder
	for s.b.Scan() {
		line := s.b.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			s.header = line
			break
		}
		seq.WriteString(line)
	}
	if err := s.b.Err(); err != nil {
		s.err = errors.Wrap(err, "couldn't read FASTA data")
		return false
	}
	rec.ID = header[1:]
	rec.Comment = ""
	if i := strings.IndexByte(rec.ID, ' '); i >= 0 {
		rec.ID, rec.Comment = rec.ID[:i], rec.ID[i+1:]
	}
	rec.Seq = seq.String()
	return true
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// Writer writes FASTA records, one sequence line per record.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one record: the '>' header line (comment appended after a
// space when present) followed by the sequence on a single line.
func (w *Writer) Write(rec Record) error {
	if err := w.w.WriteByte('>'); err != nil {
		return errors.Wrap(err, "couldn't write FASTA record")
	}
	w.w.WriteString(rec.ID)
	if rec.Comment != "" {
		w.w.WriteByte(' ')
		w.w.WriteString(rec.Comment)
	}
	w.w.WriteByte('\n')
	w.w.WriteString(rec.Seq)
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "couldn't write FASTA record")
	}
	return nil
}

// Flush flushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
