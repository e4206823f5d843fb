package seq

// SOLiD colour space encodes a read as an anchor base followed by the
// transitions between adjacent bases. The colour joining bases a and b has
// code code(a)^code(b), so decoding a base from its resolved left neighbour
// is the same XOR.

// BaseToColor returns the colour digit for the transition from a to b, or
// '.' when either base has no code.
func BaseToColor(a, b byte) byte {
	ca, aok := BaseToCode(a)
	cb, bok := BaseToCode(b)
	if !aok || !bok {
		return '.'
	}
	return CodeToColor(ca ^ cb)
}

// ColorToBase returns the base that follows prev across colour c, or 'N'
// when either input has no code.
func ColorToBase(prev, c byte) byte {
	cp, pok := BaseToCode(prev)
	cc, cok := BaseToCode(c)
	if !pok || !cok {
		return 'N'
	}
	return CodeToBase(cp ^ cc)
}

// DecodeColors decodes a colour-space read into nucleotide space. The result
// begins with the anchor base and has len(colors)+1 characters. ok is false
// when the anchor is not a codable base or colors contains a character other
// than '0'-'3'; in that case nothing is decoded.
func DecodeColors(anchor byte, colors string) (nt string, ok bool) {
	code, ok := BaseToCode(anchor)
	if !ok {
		return "", false
	}
	buf := make([]byte, len(colors)+1)
	buf[0] = anchor
	for i := 0; i < len(colors); i++ {
		c := colors[i]
		if c < '0' || c > '3' {
			return "", false
		}
		code ^= c - '0'
		buf[i+1] = CodeToBase(code)
	}
	return string(buf), true
}
