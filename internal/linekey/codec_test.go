package linekey

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	files := []string{"", "a.php", "app/Http/Controllers/UserController.php", "routes web.php"}
	for _, file := range files {
		for line := 1; line <= 250; line++ {
			gotLine, gotFile := Decode(Encode(line, file))
			if gotLine != line || gotFile != file {
				t.Fatalf("round trip (%d, %q): got (%d, %q)", line, file, gotLine, gotFile)
			}
		}
	}
}

func TestEncodeForms(t *testing.T) {
	if got := Encode(7, ""); got != "7" {
		t.Fatalf("expected single-file form, got %q", got)
	}
	if got := Encode(2, "a.php"); got != "a.php:2" {
		t.Fatalf("expected multi-file form, got %q", got)
	}
}

func TestModeKeyDropsFileInSingleFileMode(t *testing.T) {
	if got := SingleFile.Key(3, "review.php"); got != "3" {
		t.Fatalf("expected file to be dropped, got %q", got)
	}
	if got := MultiFile.Key(3, "review.php"); got != "review.php:3" {
		t.Fatalf("expected file to be kept, got %q", got)
	}
	if SingleFile.Key(3, "a.php") == MultiFile.Key(3, "a.php") {
		t.Fatalf("keys from different modes must not collide")
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(0) != SingleFile || ModeFor(1) != SingleFile {
		t.Fatalf("zero or one file should be single-file")
	}
	if ModeFor(2) != MultiFile {
		t.Fatalf("two files should be multi-file")
	}
}

func TestDecodeSplitsOnFirstSeparator(t *testing.T) {
	line, file := Decode("a:b:3")
	if file != "a" || line != 0 {
		t.Fatalf("expected ambiguous key to keep first segment as file, got (%d, %q)", line, file)
	}
}

func TestKeyAccessors(t *testing.T) {
	k := Encode(12, "User.php")
	if k.Line() != 12 || k.File() != "User.php" {
		t.Fatalf("unexpected accessors: %d %q", k.Line(), k.File())
	}
}

func TestValidFileName(t *testing.T) {
	if !ValidFileName("User.php") {
		t.Fatalf("expected plain name to be valid")
	}
	if ValidFileName("C:User.php") || ValidFileName("") {
		t.Fatalf("expected separator or empty name to be invalid")
	}
}
