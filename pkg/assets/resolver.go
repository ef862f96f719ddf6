// Package assets resolves artifact handles to the files that should be
// measured and provides the size measurement strategies.
package assets

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ScriptExt is the extension of a built script artifact.
	ScriptExt = ".js"

	// StyleExt is the extension of a built stylesheet artifact.
	StyleExt = ".css"

	// StyleShimSuffix marks handles whose script file may be an empty
	// placeholder emitted for a style-only bundle.
	StyleShimSuffix = "-style"
)

// ResolveScriptPath returns the file to measure for handle inside folder.
//
// Artifacts are assumed to be script bundles living at <folder>/<handle>.js.
// Some build pipelines emit an empty placeholder script for style-only
// bundles while the real payload is the sibling stylesheet; when the handle
// carries the style-shim suffix, the shim is empty or missing, and the
// stylesheet exists and is non-empty, the stylesheet path is returned
// instead. In every other case the script path is returned unconditionally,
// even when no such file exists (a missing file measures as zero bytes).
func ResolveScriptPath(folder, handle string) string {
	scriptPath := filepath.Join(folder, handle+ScriptExt)
	if !strings.HasSuffix(handle, StyleShimSuffix) {
		return scriptPath
	}

	if fileSize(scriptPath) > 0 {
		return scriptPath
	}

	stylePath := filepath.Join(folder, handle+StyleExt)
	if fileSize(stylePath) > 0 {
		return stylePath
	}

	return scriptPath
}

// fileSize returns the size of the regular file at path, or 0 when the file
// is missing, unreadable, or not a regular file.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}
