package variant

// Sanitize replaces every byte outside printable ASCII (0x20-0x7E) with a
// space. The byte length of s is preserved, so a multi-byte UTF-8 character
// turns into as many spaces as it had bytes.
func Sanitize(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if !printable(s[i]) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if !printable(c) {
			b[i] = ' '
		}
	}
	return string(b)
}

func printable(c byte) bool {
	return c >= 0x20 && c <= 0x7e
}
