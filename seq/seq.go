// Package seq provides byte-level primitives for nucleotide and SOLiD
// colour-space sequences: 2-bit base codes, complementation, and colour
// transition arithmetic.
package seq

// NBase is the number of canonical base codes.
const NBase = 4

// These constants are the natural values for A/C/G/T in a packed 2-bit
// representation. Colour digits '0'-'3' share the same code space, which
// makes a colour the XOR of the codes of its flanking bases.
const (
	// BaseA is the 2-bit code for an A base, or colour '0'.
	BaseA uint8 = iota
	// BaseC is the 2-bit code for a C base, or colour '1'.
	BaseC
	// BaseG is the 2-bit code for a G base, or colour '2'.
	BaseG
	// BaseT is the 2-bit code for a T base, or colour '3'.
	BaseT
)

const invalidCode = 0xff

// codeIndex maps nucleotide characters (either case) and colour digits
// '0'-'3' to their 2-bit codes. Every other byte maps to invalidCode.
var codeIndex [256]uint8

// complementTable maps A<->T and C<->G preserving case. N and n map to
// themselves; every other byte maps to 'N'.
var complementTable [256]byte

func init() {
	for i := range codeIndex {
		codeIndex[i] = invalidCode
	}
	for code, chars := range [NBase]string{"Aa0", "Cc1", "Gg2", "Tt3"} {
		for _, ch := range chars {
			codeIndex[ch] = uint8(code)
		}
	}
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	for _, p := range [...][2]byte{{'A', 'T'}, {'C', 'G'}, {'a', 't'}, {'c', 'g'}} {
		complementTable[p[0]] = p[1]
		complementTable[p[1]] = p[0]
	}
	complementTable['N'] = 'N'
	complementTable['n'] = 'n'
}

// BaseToCode returns the 2-bit code for a nucleotide or colour character.
// ok is false for characters outside ACGT (either case) and '0'-'3'.
func BaseToCode(b byte) (code uint8, ok bool) {
	code = codeIndex[b]
	return code, code != invalidCode
}

// CodeToBase returns the nucleotide character for a 2-bit code.
func CodeToBase(code uint8) byte { return "ACGT"[code] }

// CodeToColor returns the colour digit for a 2-bit code.
func CodeToColor(code uint8) byte { return "0123"[code] }

// Complement returns the complementary nucleotide, preserving case.
// Bytes outside ACGT/acgt/Nn map to 'N'.
func Complement(b byte) byte { return complementTable[b] }

// Reverse returns s reversed. A colour-space read reverses without
// complementing: a transition reads the same on either strand.
func Reverse(s string) string {
	buf := []byte(s)
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ReverseComplement returns the reverse strand of a nucleotide sequence.
func ReverseComplement(s string) string {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		buf[i] = complementTable[s[len(s)-1-i]]
	}
	return string(buf)
}
