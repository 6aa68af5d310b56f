package linekey

import (
	"strconv"
	"strings"
)

// Separator joins the file name and line number of a multi-file key.
// File names must not contain it.
const Separator = ":"

// Key identifies one line within a challenge's file set.
type Key string

// Mode selects whether keys carry the file name.
type Mode int

const (
	SingleFile Mode = iota
	MultiFile
)

func (m Mode) String() string {
	if m == MultiFile {
		return "multi_file"
	}
	return "single_file"
}

// ModeFor returns the addressing mode for a file set of the given size.
func ModeFor(fileCount int) Mode {
	if fileCount > 1 {
		return MultiFile
	}
	return SingleFile
}

// Key encodes line (and file, in multi-file mode) under this mode.
func (m Mode) Key(line int, file string) Key {
	if m == MultiFile {
		return Encode(line, file)
	}
	return Encode(line, "")
}

// Encode builds a key. An empty file yields the single-file form.
func Encode(line int, file string) Key {
	n := strconv.Itoa(line)
	if file == "" {
		return Key(n)
	}
	return Key(file + Separator + n)
}

// Decode splits a key on the first separator. Keys without a separator
// decode to (line, ""). A non-numeric line part decodes to 0.
func Decode(key Key) (line int, file string) {
	s := string(key)
	if i := strings.Index(s, Separator); i >= 0 {
		file, s = s[:i], s[i+len(Separator):]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, file
	}
	return n, file
}

// Line returns the decoded line number.
func (k Key) Line() int {
	line, _ := Decode(k)
	return line
}

// File returns the decoded file name, empty for single-file keys.
func (k Key) File() string {
	_, file := Decode(k)
	return file
}

// ValidFileName reports whether name can be encoded without ambiguity.
func ValidFileName(name string) bool {
	return name != "" && !strings.Contains(name, Separator)
}
