package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/criyle/go-jail/pkg/jailparam"
)

type checkStatus int

const (
	checkStatusOK checkStatus = iota
	checkStatusWarning
	checkStatusError
)

type checkResult struct {
	ID      string
	Status  checkStatus
	Message string
}

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run preflight checks for jail management.")

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	out := c.rootCmd.Stdout

	results := runChecks()

	totalErrors := 0
	totalWarnings := 0

	fmt.Fprintln(out, "Checking jail support...")
	for _, r := range results {
		fmt.Fprintf(out, "  %s %-8s %s\n", statusIcon(r.Status), r.ID, r.Message)
		switch r.Status {
		case checkStatusError:
			totalErrors++
		case checkStatusWarning:
			totalWarnings++
		}
	}

	// Summary.
	fmt.Fprintln(out)
	if totalErrors == 0 && totalWarnings == 0 {
		fmt.Fprintln(out, "All checks passed!")
	} else {
		var summary []string
		if totalErrors > 0 {
			summary = append(summary, fmt.Sprintf("%d error(s)", totalErrors))
		}
		if totalWarnings > 0 {
			summary = append(summary, fmt.Sprintf("%d warning(s)", totalWarnings))
		}
		fmt.Fprintf(out, "%s\n", strings.Join(summary, ", "))
	}

	if totalErrors > 0 {
		return fmt.Errorf("preflight checks failed with %d error(s)", totalErrors)
	}

	return nil
}

func runChecks() []checkResult {
	var results []checkResult

	// Operating system.
	if runtime.GOOS == "freebsd" {
		results = append(results, checkResult{ID: "os", Status: checkStatusOK, Message: "running on FreeBSD"})
	} else {
		results = append(results, checkResult{ID: "os", Status: checkStatusError, Message: fmt.Sprintf("jails need FreeBSD, running on %s", runtime.GOOS)})
	}

	// Privileges. Reading parameters works unprivileged, everything else
	// needs root.
	if os.Geteuid() == 0 {
		results = append(results, checkResult{ID: "root", Status: checkStatusOK, Message: "running as root"})
	} else {
		results = append(results, checkResult{ID: "root", Status: checkStatusWarning, Message: "not root, jail create/update/remove will fail"})
	}

	// Parameter sysctl tree.
	if kind, err := jailparam.ProbeKind("jid"); err == nil {
		results = append(results, checkResult{ID: "params", Status: checkStatusOK, Message: fmt.Sprintf("kernel reports jid as %s", kind)})
	} else {
		results = append(results, checkResult{ID: "params", Status: checkStatusError, Message: fmt.Sprintf("could not probe jail parameters: %s", err)})
	}

	// Nesting.
	jailed, err := securityJailed()
	switch {
	case err != nil:
		results = append(results, checkResult{ID: "jailed", Status: checkStatusWarning, Message: fmt.Sprintf("could not tell if already jailed: %s", err)})
	case jailed:
		results = append(results, checkResult{ID: "jailed", Status: checkStatusWarning, Message: "already inside a jail, children.max limits apply"})
	default:
		results = append(results, checkResult{ID: "jailed", Status: checkStatusOK, Message: "not inside a jail"})
	}

	return results
}

func statusIcon(status checkStatus) string {
	switch status {
	case checkStatusOK:
		return "OK"
	case checkStatusWarning:
		return "!!"
	case checkStatusError:
		return "XX"
	default:
		return "??"
	}
}
