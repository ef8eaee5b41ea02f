package keys

import "strings"

// 基数排序的固定字母表：'0'-'9' -> 0..9, 'A'-'Z' -> 10..35, 空位 -> 36
const (
	PaddingBucket = 36
	Radix         = 37
)

// Normalize 去掉 [A-Za-z0-9] 之外的所有字符并转为大写。
// 纯函数且幂等：Normalize(Normalize(k)) == Normalize(k)
func Normalize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

// Compare orders two raw keys by their normalized form.
func Compare(a, b string) int {
	return strings.Compare(Normalize(a), Normalize(b))
}

// Equal reports whether two raw keys normalize to the same string.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Bucket classifies one character of a normalized key. Anything outside the
// alphabet lands in the padding bucket, which never happens for normalized input.
func Bucket(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return PaddingBucket
	}
}

// FieldChar classifies the character at position pos of a key left-aligned in
// a field of the given width, counting positions from the right edge of the
// field (0 = last column). Columns past the key's end are padding.
func FieldChar(key string, width, pos int) int {
	idx := width - 1 - pos
	if idx < 0 || idx >= len(key) {
		return PaddingBucket
	}
	return Bucket(key[idx])
}

// BucketOrder is the order buckets are laid out in a counting pass. Padding
// comes first so a key that is a prefix of another sorts before it, which
// keeps radix order identical to plain string order.
var BucketOrder = func() [Radix]int {
	var order [Radix]int
	order[0] = PaddingBucket
	for b := 0; b < PaddingBucket; b++ {
		order[b+1] = b
	}
	return order
}()
