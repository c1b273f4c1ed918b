// Package paths centralizes file system path resolution for clawstrap.
//
// It resolves the assistant config directory and its two target documents,
// the ordered shell startup file candidates for secret persistence, and
// clawstrap's own XDG config and state directories.
package paths
