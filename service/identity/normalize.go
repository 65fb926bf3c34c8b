package identity

import (
	"strings"
)

// UserServer is the canonical server part of personal chat addresses.
const UserServer = "s.whatsapp.net"

// server aliases observed across client libraries
var serverAliases = map[string]string{
	"c.us":         UserServer,
	"whatsapp.net": UserServer,
	UserServer:     UserServer,
}

// Normalize returns the canonical recipient key for address, or "" when the
// address is malformed. Normalize is idempotent.
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	address = strings.TrimLeft(address, "+")
	if address == "" {
		return ""
	}
	user, server := address, UserServer
	if idx := strings.LastIndexByte(address, '@'); idx != -1 {
		user, server = address[:idx], strings.ToLower(strings.TrimSpace(address[idx+1:]))
		if alias, ok := serverAliases[server]; ok {
			server = alias
		}
	}
	if server == "" {
		return ""
	}
	// device suffix, e.g. 628123:12@s.whatsapp.net
	if idx := strings.IndexByte(user, ':'); idx != -1 {
		user = user[:idx]
	}
	if server == UserServer {
		user = phoneDigits(user)
	} else {
		user = strings.TrimSpace(user)
		if strings.ContainsAny(user, " \t\r\n@") {
			return ""
		}
	}
	if user == "" {
		return ""
	}
	return user + "@" + server
}

// phoneDigits strips visual separators; it returns "" when anything other
// than digits remains.
func phoneDigits(user string) string {
	var b strings.Builder
	b.Grow(len(user))
	for i := 0; i < len(user); i++ {
		c := user[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == ' ', c == '-', c == '.', c == '(', c == ')', c == '+', c == '\t':
		default:
			return ""
		}
	}
	return b.String()
}

// User returns the key with its server suffix stripped
func User(key string) string {
	if idx := strings.IndexByte(key, '@'); idx != -1 {
		return key[:idx]
	}
	return key
}

// Equal reports whether two addresses resolve to the same valid key
func Equal(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}

// Valid reports whether key is a usable normalized key
func Valid(key string) bool {
	return key != "" && Normalize(key) == key
}
