package hydra

import (
	"net/netip"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// hydra command-line flags.
const (
	flagWait          = "-w"
	flagLoginFile     = "-L"
	flagLogin         = "-l"
	flagPasswordFile  = "-P"
	flagPassword      = "-p"
	flagComboFile     = "-C"
	flagThreads       = "-t"
	flagOutput        = "-o"
	flagOutputFormat  = "-b"
	flagIgnoreRestore = "-I"
)

// Command is a process invocation handed to a Runner.
type Command struct {
	Binary string
	Args   []string
	// Dir is the working directory; hydra writes hydra.restore there.
	Dir string
}

// redacted replaces literal password values in String.
const redacted = "***"

// String renders the command for logs and storage. Arguments are not shell
// quoted and the value of a literal -p password is replaced with ***.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	args := make([]string, len(c.Args))
	copy(args, c.Args)
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flagPassword {
			args[i+1] = redacted
			i++
		}
	}
	return c.Binary + " " + strings.Join(args, " ")
}

// TargetURL renders hydra's service://host:port target form.
func TargetURL(service string, addr netip.Addr, port int) string {
	return service + "://" + netip.AddrPortFrom(addr, uint16(port)).String()
}

// BuildArgs validates req and returns the hydra argument list for target,
// writing the export to exportPath.
func BuildArgs(target netip.Addr, req Request, exportPath string) ([]string, error) {
	n, err := normalize(req, zap.NewNop())
	if err != nil {
		return nil, err
	}
	return buildArgs(target, n, exportPath), nil
}

// buildArgs expects a normalized request.
func buildArgs(target netip.Addr, r Request, exportPath string) []string {
	args := []string{
		TargetURL(r.Service, target, r.Port),
		flagWait, strconv.Itoa(r.WaitTime),
	}

	if r.Combo() {
		args = append(args, flagComboFile, r.ComboFile)
	} else {
		switch {
		case r.LoginFile != "":
			args = append(args, flagLoginFile, r.LoginFile)
		case r.Login != "":
			args = append(args, flagLogin, r.Login)
		}
		switch {
		case r.PasswordFile != "":
			args = append(args, flagPasswordFile, r.PasswordFile)
		case r.Password != "":
			args = append(args, flagPassword, r.Password)
		}
	}

	args = append(args, flagThreads, strconv.Itoa(r.Threads))
	if exportPath != "" {
		args = append(args, flagOutput, exportPath, flagOutputFormat, r.ExportType)
	}
	if !r.UseRestoreFile {
		args = append(args, flagIgnoreRestore)
	}
	return args
}
