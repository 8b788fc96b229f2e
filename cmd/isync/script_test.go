package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// isyncCmd runs the isync command tree in-process, the way a real
// invocation would, but without forking a subprocess. Subcommands print
// straight to os.Stdout/os.Stderr rather than through cobra's OutOrStdout,
// the same way the teacher's own CLI commands do, so this helper swaps the
// process-wide streams for pipes rather than relying on rootCmd.SetOut.
func isyncCmd() script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "run the isync CLI in-process",
			Args:    "subcommand [args...]",
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			realOut, realErr := os.Stdout, os.Stderr
			outR, outW, err := os.Pipe()
			if err != nil {
				return nil, err
			}
			errR, errW, err := os.Pipe()
			if err != nil {
				return nil, err
			}
			os.Stdout, os.Stderr = outW, errW

			rootCmd.SetArgs(args)
			runErr := rootCmd.Execute()

			outW.Close()
			errW.Close()
			os.Stdout, os.Stderr = realOut, realErr

			var stdout, stderr bytes.Buffer
			io.Copy(&stdout, outR)
			io.Copy(&stderr, errR)

			stdoutText, stderrText := stdout.String(), stderr.String()
			return func(*script.State) (string, string, error) {
				return stdoutText, stderrText, runErr
			}, nil
		},
	)
}

func TestScripts(t *testing.T) {
	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	engine.Cmds["isync"] = isyncCmd()

	ctx := context.Background()
	scripttest.Test(t, ctx, engine, nil, "testdata/*.txt")
}
