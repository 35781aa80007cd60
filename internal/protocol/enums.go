package protocol

import "fmt"

// ServerType is the single-byte dedicated/listen/proxy marker of an Info reply.
type ServerType byte

// Recognized server types.
const (
	Dedicated ServerType = 'd'
	Listen    ServerType = 'l'
	Proxy     ServerType = 'p'
)

// ParseServerType validates the wire byte. Any value outside d/l/p fails the
// whole Info decode.
func ParseServerType(b byte) (ServerType, error) {
	switch t := ServerType(b); t {
	case Dedicated, Listen, Proxy:
		return t, nil
	default:
		return 0, fmt.Errorf("invalid server type 0x%02x", b)
	}
}

func (t ServerType) String() string {
	switch t {
	case Dedicated:
		return "dedicated"
	case Listen:
		return "listen"
	case Proxy:
		return "proxy"
	}

	return "unknown"
}

// Environment is the single-byte OS family marker of an Info reply.
type Environment byte

// Recognized server operating systems.
const (
	Linux   Environment = 'l'
	Windows Environment = 'w'
	Mac     Environment = 'm'
)

// ParseEnvironment validates the wire byte against l/w/m.
func ParseEnvironment(b byte) (Environment, error) {
	switch e := Environment(b); e {
	case Linux, Windows, Mac:
		return e, nil
	default:
		return 0, fmt.Errorf("invalid environment 0x%02x", b)
	}
}

func (e Environment) String() string {
	switch e {
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	case Mac:
		return "mac"
	}

	return "unknown"
}

// Visibility reports whether the server requires a password to join.
type Visibility byte

// Recognized visibility values.
const (
	Public  Visibility = 0
	Private Visibility = 1
)

// ParseVisibility validates the wire byte against 0/1.
func ParseVisibility(b byte) (Visibility, error) {
	switch v := Visibility(b); v {
	case Public, Private:
		return v, nil
	default:
		return 0, fmt.Errorf("invalid visibility 0x%02x", b)
	}
}

func (v Visibility) String() string {
	if v == Private {
		return "private"
	}

	return "public"
}

// VAC reports whether the server runs Valve Anti-Cheat.
type VAC byte

// Recognized VAC values.
const (
	Unsecured VAC = 0
	Secured   VAC = 1
)

// ParseVAC validates the wire byte against 0/1.
func ParseVAC(b byte) (VAC, error) {
	switch v := VAC(b); v {
	case Unsecured, Secured:
		return v, nil
	default:
		return 0, fmt.Errorf("invalid VAC status 0x%02x", b)
	}
}

func (v VAC) String() string {
	if v == Secured {
		return "secured"
	}

	return "unsecured"
}
