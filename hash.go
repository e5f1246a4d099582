package pname

import "math/bits"

// HashString returns HashBytes of s without copying it.
func HashString(s string) uint32 {
	return hashBytes(s)
}

// HashBytes computes PostgreSQL's hash_bytes (Bob Jenkins' lookup3, as built
// on little-endian hosts). For a text value t, hashtext(t) on the server
// equals int32(HashString(t)).
func HashBytes(k []byte) uint32 {
	return hashBytes(k)
}

func hashBytes[T ~string | ~[]byte](k T) uint32 {
	n := len(k)
	a := 0x9e3779b9 + uint32(n) + 3923095
	b, c := a, a

	i := 0
	for ; n-i >= 12; i += 12 {
		a += word(k, i)
		b += word(k, i+4)
		c += word(k, i+8)
		a, b, c = mix(a, b, c)
	}

	// The lowest byte of c is reserved for the length, so the tail fills
	// c from the second byte up.
	switch n - i {
	case 11:
		c += uint32(k[i+10]) << 24
		fallthrough
	case 10:
		c += uint32(k[i+9]) << 16
		fallthrough
	case 9:
		c += uint32(k[i+8]) << 8
		fallthrough
	case 8:
		b += uint32(k[i+7]) << 24
		fallthrough
	case 7:
		b += uint32(k[i+6]) << 16
		fallthrough
	case 6:
		b += uint32(k[i+5]) << 8
		fallthrough
	case 5:
		b += uint32(k[i+4])
		fallthrough
	case 4:
		a += uint32(k[i+3]) << 24
		fallthrough
	case 3:
		a += uint32(k[i+2]) << 16
		fallthrough
	case 2:
		a += uint32(k[i+1]) << 8
		fallthrough
	case 1:
		a += uint32(k[i])
	}

	_, _, c = finalMix(a, b, c)
	return c
}

func word[T ~string | ~[]byte](k T, i int) uint32 {
	return uint32(k[i]) | uint32(k[i+1])<<8 | uint32(k[i+2])<<16 | uint32(k[i+3])<<24
}

func mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= c
	a ^= bits.RotateLeft32(c, 4)
	c += b
	b -= a
	b ^= bits.RotateLeft32(a, 6)
	a += c
	c -= b
	c ^= bits.RotateLeft32(b, 8)
	b += a
	a -= c
	a ^= bits.RotateLeft32(c, 16)
	c += b
	b -= a
	b ^= bits.RotateLeft32(a, 19)
	a += c
	c -= b
	c ^= bits.RotateLeft32(b, 4)
	b += a
	return a, b, c
}

func finalMix(a, b, c uint32) (uint32, uint32, uint32) {
	c ^= b
	c -= bits.RotateLeft32(b, 14)
	a ^= c
	a -= bits.RotateLeft32(c, 11)
	b ^= a
	b -= bits.RotateLeft32(a, 25)
	c ^= b
	c -= bits.RotateLeft32(b, 16)
	a ^= c
	a -= bits.RotateLeft32(c, 4)
	b ^= a
	b -= bits.RotateLeft32(a, 14)
	c ^= b
	c -= bits.RotateLeft32(b, 24)
	return a, b, c
}
