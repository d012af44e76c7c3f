package commands

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-authenticating
or reconnecting to the database. The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("interactive command")

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n🚀 Starting interactive session...")
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := siblingCommands(cmd)
			return runSession(cmd.InOrStdin(), out, commands)
		},
	}
}

// siblingCommands returns the root's subcommands that make sense inside a session
func siblingCommands(cmd *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	root := cmd.Parent()
	if root == nil {
		return commands
	}
	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help", "serve":
			continue
		}
		commands[sub.Name()] = sub
	}
	return commands
}

func runSession(in io.Reader, out io.Writer, commands map[string]*cobra.Command) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmdName := parts[0]
		cmdArgs := parts[1:]

		if cmdName == "exit" || cmdName == "quit" {
			fmt.Fprintln(out, "👋 Goodbye!")
			return nil
		}

		if cmdName == "help" {
			printInteractiveHelp(out, commands)
			continue
		}

		targetCmd, exists := commands[cmdName]
		if !exists {
			fmt.Fprintf(out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
			continue
		}

		if err := runInSession(targetCmd, cmdArgs); err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// runInSession runs a command's RunE directly so PersistentPreRunE and
// PersistentPostRun (which close the database) do not run between commands
func runInSession(cmd *cobra.Command, args []string) error {
	// Flags keep their values between runs unless reset
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	args = cmd.Flags().Args()

	if cmd.Args != nil {
		if err := cmd.Args(cmd, args); err != nil {
			return err
		}
	}
	if err := cmd.ValidateRequiredFlags(); err != nil {
		return err
	}

	if cmd.RunE != nil {
		return cmd.RunE(cmd, args)
	}
	if cmd.Run != nil {
		cmd.Run(cmd, args)
	}
	return nil
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(w, "\n  help                           Show this help message")
	fmt.Fprintln(w, "  exit, quit                     Exit the interactive session")
	fmt.Fprintln(w)
}
