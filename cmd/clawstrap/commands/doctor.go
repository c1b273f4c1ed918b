package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhoffman/clawstrap/internal/doctor"
	cserrors "github.com/mhoffman/clawstrap/internal/errors"
	"github.com/mhoffman/clawstrap/internal/paths"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check installer preconditions without changing anything",
	Long: `Runs the same precondition checks the installer performs and reports
the results. Nothing is created or modified.

Filesystem checks (home directory, target directory) must pass for
the installer to run. Runtime checks (claude, node, npx) are needed
only by the provisioned tool; missing ones are reported as warnings.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	home := paths.Home()

	results := doctor.RunAll(doctor.DefaultChecks(home))

	pass := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)
	out := cmd.OutOrStdout()

	for _, r := range results {
		switch r.Status {
		case doctor.SeverityError:
			fail.Fprint(out, "  ✗ ")
		case doctor.SeverityWarning:
			warn.Fprint(out, "  ! ")
		default:
			pass.Fprint(out, "  ✓ ")
		}
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Message)
		if r.FixHint != "" && r.Status >= doctor.SeverityWarning {
			fmt.Fprintf(out, "    hint: %s\n", r.FixHint)
		}
	}

	s := doctor.Summarize(results)
	fmt.Fprintf(out, "\n%d passed, %d warnings, %d errors\n", s.Passed, s.Warnings, s.Errors)

	if s.Errors > 0 {
		return cserrors.NewExitError(cserrors.ErrPreconditionFailed, cserrors.ExitUser)
	}
	return nil
}
