//go:build linux

package main

import "golang.org/x/sys/unix"

// restrictPrivileges stops the renderer child and anything it could exec
// from gaining privileges.
func restrictPrivileges() error {
	return unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0)
}
