package evtlog

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/sys/windows"

	"github.com/quentin-nozomi/evtq/winapi"
)

// openSession opens an RPC session to creds.Host, or returns the local
// session for nil credentials. The password is wiped once the session is
// open, whatever the outcome.
// https://learn.microsoft.com/en-us/windows/win32/wes/accessing-remote-computers
func openSession(creds *Credentials) (winapi.EvtHandle, error) {
	if creds == nil || creds.Host == "" {
		creds.Zero()
		return 0, nil
	}

	password := passwordUTF16(creds.Password)
	defer func() {
		for i := range password {
			password[i] = 0
		}
		creds.Zero()
	}()

	login := winapi.EvtRpcLoginInfo{Flags: winapi.EvtRpcLoginAuthNegotiate}
	var err error
	if login.Server, err = windows.UTF16PtrFromString(creds.Host); err != nil {
		return 0, err
	}
	if creds.User != "" {
		if login.User, err = windows.UTF16PtrFromString(creds.User); err != nil {
			return 0, err
		}
	}
	if creds.Domain != "" {
		if login.Domain, err = windows.UTF16PtrFromString(creds.Domain); err != nil {
			return 0, err
		}
	}
	if len(password) > 1 {
		login.Password = &password[0]
	}

	session, err := winapi.EvtOpenSession(winapi.EvtRpcLogin, &login, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("connecting to %s: %w", creds.Host, err)
	}
	return session, nil
}

// passwordUTF16 converts without going through an immutable string, so the
// copy can be wiped. The result is NUL terminated.
func passwordUTF16(password []byte) []uint16 {
	out := make([]uint16, 0, len(password)+1)
	for b := password; len(b) > 0; {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		out = utf16.AppendRune(out, r)
	}
	return append(out, 0)
}
