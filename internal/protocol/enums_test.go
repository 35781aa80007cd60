package protocol

import "testing"

func TestParseServerType(t *testing.T) {
	for b, want := range map[byte]ServerType{'d': Dedicated, 'l': Listen, 'p': Proxy} {
		got, err := ParseServerType(b)
		if err != nil || got != want {
			t.Errorf("ParseServerType(%q) = %v, %v; want %v", b, got, err, want)
		}
	}

	for _, b := range []byte{'i', 'x', 0x00, 0xFF} {
		if _, err := ParseServerType(b); err == nil {
			t.Errorf("ParseServerType(0x%02x) accepted an invalid byte", b)
		}
	}
}

func TestParseEnvironment(t *testing.T) {
	for b, want := range map[byte]Environment{'l': Linux, 'w': Windows, 'm': Mac} {
		got, err := ParseEnvironment(b)
		if err != nil || got != want {
			t.Errorf("ParseEnvironment(%q) = %v, %v; want %v", b, got, err, want)
		}
	}

	if _, err := ParseEnvironment('o'); err == nil {
		t.Error("ParseEnvironment('o') accepted an invalid byte")
	}
}

func TestParseVisibility(t *testing.T) {
	for b, want := range map[byte]Visibility{0: Public, 1: Private} {
		got, err := ParseVisibility(b)
		if err != nil || got != want {
			t.Errorf("ParseVisibility(%d) = %v, %v; want %v", b, got, err, want)
		}
	}

	if _, err := ParseVisibility(2); err == nil {
		t.Error("ParseVisibility(2) accepted an invalid byte")
	}
}

func TestParseVAC(t *testing.T) {
	for b, want := range map[byte]VAC{0: Unsecured, 1: Secured} {
		got, err := ParseVAC(b)
		if err != nil || got != want {
			t.Errorf("ParseVAC(%d) = %v, %v; want %v", b, got, err, want)
		}
	}

	if _, err := ParseVAC(0xFF); err == nil {
		t.Error("ParseVAC(0xFF) accepted an invalid byte")
	}
}

func TestEnumStrings(t *testing.T) {
	cases := map[string]string{
		Dedicated.String(): "dedicated",
		Listen.String():    "listen",
		Windows.String():   "windows",
		Private.String():   "private",
		Secured.String():   "secured",
	}

	for got, want := range cases {
		if got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
