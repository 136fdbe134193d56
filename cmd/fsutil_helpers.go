package cmd

import "os"

// fileExists reports whether path names a regular, readable file, used to
// make the cdefault.yml lookup optional.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
