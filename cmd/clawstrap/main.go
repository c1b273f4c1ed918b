// Package main is the entry point for the clawstrap CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/mhoffman/clawstrap/cmd/clawstrap/commands"
	cserrors "github.com/mhoffman/clawstrap/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)

	var exitErr *cserrors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(cserrors.ExitUser)
}
