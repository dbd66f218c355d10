//go:build !unix

package hydra

import "os/exec"

// setProcessGroup keeps the exec.CommandContext default of killing only hydra.
func setProcessGroup(*exec.Cmd) {}
