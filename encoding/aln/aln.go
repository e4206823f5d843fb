// Package aln parses the whitespace-delimited alignment records emitted by
// KAligner-style read aligners. Each line carries one read and zero or more
// gapless alignments of that read against a contig:
//
//	<readID> [<anchor>] <seq> {<contig> <contigStart> <readStart> <length> <readLength> <rc>}*
//
// The single-character anchor column is present only for colour-space data,
// where it holds the primer base preceding the first colour. rc is 0 or 1.
package aln

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrInvalid is returned when a malformed alignment record is encountered.
var ErrInvalid = errors.New("invalid alignment record")

// An Alignment is one gapless alignment of a read against a contig.
type Alignment struct {
	// Contig is the ID of the aligned-to contig.
	Contig string
	// ContigStart is the 0-based start of the alignment on the contig.
	ContigStart int
	// ReadStart is the 0-based start of the alignment on the read.
	ReadStart int
	// Length is the number of aligned symbols.
	Length int
	// ReadLength is the full length of the read.
	ReadLength int
	// RC reports that the read aligns on the reverse strand.
	RC bool
}

// Flip mirrors the alignment onto the opposite strand of the read, so that
// the read coordinates refer to the reverse-complemented sequence.
func (a Alignment) Flip() Alignment {
	a.ReadStart = a.ReadLength - (a.ReadStart + a.Length)
	return a
}

// A Read is one line of aligner output.
type Read struct {
	ID string
	// Anchor is the primer base preceding a colour-space read, 0 otherwise.
	Anchor byte
	Seq    string
	Alns   []Alignment
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading alignment records.
// The Scan method returns the next read, returning a boolean indicating
// whether the read succeeded. Blank lines are skipped. Scanners are not
// threadsafe.
type Scanner struct {
	b        *bufio.Scanner
	anchored bool
	err      error
}

// NewScanner constructs a Scanner that reads alignment records from r.
// anchored selects the colour-space line shape with the anchor column.
func NewScanner(r io.Reader, anchored bool) *Scanner {
	return &Scanner{b: bufio.NewScanner(r), anchored: anchored}
}

// Scan the next record into read. Scan returns a boolean indicating whether
// the scan succeeded. Once Scan returns false, it never returns true again.
// Upon completion, the user should check the Err method to determine whether
// scanning stopped because of an error or because the end of the stream was
// reached.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	var fields []string
	for len(fields) == 0 {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err == nil {
				s.err = errEOF
			}
			return false
		}
		fields = strings.Fields(s.b.Text())
	}
	read.ID = fields[0]
	read.Anchor = 0
	rest := fields[1:]
	if s.anchored {
		if len(rest) == 0 || len(rest[0]) != 1 {
			s.err = ErrInvalid
			return false
		}
		read.Anchor = rest[0][0]
		rest = rest[1:]
	}
	if len(rest) == 0 || len(rest[1:])%6 != 0 {
		s.err = ErrInvalid
		return false
	}
	read.Seq = rest[0]
	read.Alns = read.Alns[:0]
	for f := rest[1:]; len(f) > 0; f = f[6:] {
		a := Alignment{Contig: f[0]}
		var coords [4]int
		for j := range coords {
			v, err := strconv.Atoi(f[1+j])
			if err != nil {
				s.err = ErrInvalid
				return false
			}
			coords[j] = v
		}
		a.ContigStart, a.ReadStart, a.Length, a.ReadLength = coords[0], coords[1], coords[2], coords[3]
		switch f[5] {
		case "0":
		case "1":
			a.RC = true
		default:
			s.err = ErrInvalid
			return false
		}
		read.Alns = append(read.Alns, a)
	}
	return true
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}
