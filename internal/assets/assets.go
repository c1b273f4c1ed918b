// Package assets holds the embedded document bodies emitted by the installer.
//
// Both documents are opaque byte strings embedded at build time; the
// installer writes them verbatim and never parses or renders them. The
// ${NAME} placeholders inside the settings document are resolved by the
// consuming CLI at its own load time from the environment bindings this
// installer creates.
package assets

import _ "embed"

// policy is the static policy document installed as CLAUDE.md.
//
//go:embed templates/CLAUDE.md
var policy []byte

// settings is the settings document installed as settings.json.
// It references the collected secret names as literal ${NAME} placeholders.
//
//go:embed templates/settings.json
var settings []byte

// Policy returns the policy document body.
func Policy() []byte {
	return policy
}

// Settings returns the settings document body.
func Settings() []byte {
	return settings
}
