// Package backup creates timestamped sibling copies of files before they
// are overwritten.
//
// A backup is a plain copy named <path>.bak.<YYYYMMDD-HHMMSS>, with the
// original permission bits preserved and the copied bytes hashed for the
// run manifest. Backups are never deleted by clawstrap.
package backup
