package core

import (
	"fmt"
	"strings"
)

// checkFilename reports why name cannot be used as a file name inside an
// entry directory, or "" when it can.
func checkFilename(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is empty"
	}
	if name == "." || name == ".." {
		return fmt.Sprintf("%q is a reserved name", name)
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return "name contains a control character"
		}
		if r == '/' || r == '\\' {
			return fmt.Sprintf("name contains path separator %q", r)
		}
	}
	return ""
}
