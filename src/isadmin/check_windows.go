package isadmin

import (
	"golang.org/x/sys/windows"
)

// IsAdmin reports whether the process token is elevated, or failing that,
// whether it belongs to the administrators group.
func IsAdmin() bool {
	token := windows.GetCurrentProcessToken()
	if token.IsElevated() {
		return true
	}
	sid, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		return false
	}
	member, err := windows.Token(0).IsMember(sid)
	return err == nil && member
}
