package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/aiwr/internal/agent"
	"github.com/iksnae/aiwr/internal/index"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// lookPath is swapped in tests
var lookPath = exec.LookPath

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that aiwr can run agents and read its session logs",
	Long: `Check the health of aiwr by verifying:
  • Configuration loading
  • Log root accessibility
  • Agent executables on PATH
  • Session log readability
  • Index consistency (when enabled)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("aiwr Health Check"))
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		if cfg.Path != "" {
			fmt.Fprintln(out, successStyle.Render("✅ Config loaded from "+cfg.Path))
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ No config file, using defaults"))
		}
		if verbose {
			fmt.Fprintf(out, "   Default agent: %s\n", cfg.ResolveDefaultAgent())
			fmt.Fprintf(out, "   Kill grace: %s\n", cfg.KillGrace)
			fmt.Fprintf(out, "   Tree max lines: %d\n", cfg.TreeMaxLines)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking log root..."))
		ws := openWorkspace()
		defer ws.Close()
		root := ws.dir.Root()
		rootOK := true
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			fmt.Fprintln(out, successStyle.Render("✅ Log root exists: "+root))
		} else if os.IsNotExist(err) {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Log root not created yet: "+root))
		} else {
			rootOK = false
			fmt.Fprintln(out, errorStyle.Render("❌ Log root unusable: "+root))
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 3: Looking for agent executables..."))
		available := checkAgents(out)
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 4: Reading session logs..."))
		files, err := ws.dir.LogFiles()
		logsOK := err == nil
		switch {
		case err != nil:
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to scan logs:"), err)
		case len(files) == 0:
			fmt.Fprintln(out, warningStyle.Render("⚠️  No sessions found"))
		default:
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(files))))
			if _, err := ws.dir.Roots(); err != nil {
				logsOK = false
				fmt.Fprintln(out, errorStyle.Render("❌ Session tree unreadable:"), err)
			}
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 5: Checking index..."))
		checkIndex(out, ws.index, len(files))
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("Summary"))
		fmt.Fprintln(out)
		if rootOK && logsOK && available > 0 {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Agents: %d available", available)))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d found", len(files))))
			return nil
		}

		fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
		if available == 0 {
			fmt.Fprintln(out, "   • No agent executable found on PATH")
		}
		if !rootOK || !logsOK {
			fmt.Fprintln(out, "   • Session logs cannot be read")
		}
		return fmt.Errorf("health check failed")
	},
}

// checkAgents reports each agent's executable and returns how many were found
func checkAgents(w io.Writer) int {
	available := 0
	for _, a := range agent.All() {
		path, err := lookPath(a.Command())
		if err != nil {
			fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("⚠️  %s: %s not on PATH", a.Name(), a.Command())))
			continue
		}
		available++
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ %s: %s", a.Name(), a.Command())))
		if verbose {
			fmt.Fprintf(w, "   Path: %s\n", path)
		}
	}
	return available
}

func checkIndex(w io.Writer, ix *index.Index, logCount int) {
	if !cfg.Index {
		fmt.Fprintln(w, infoStyle.Render("ℹ Index disabled"))
		return
	}
	if ix == nil {
		fmt.Fprintln(w, warningStyle.Render("⚠️  Index enabled but could not be opened; child lookups scan logs"))
		return
	}

	count, err := ix.Count()
	switch {
	case err != nil:
		fmt.Fprintln(w, warningStyle.Render("⚠️  Index unreadable:"), err)
	case count != logCount:
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("⚠️  Index has %d session(s), logs have %d; run 'aiwr index rebuild'", count, logCount)))
	default:
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ Index in sync (%d session(s))", count)))
	}
	if verbose {
		fmt.Fprintf(w, "   Path: %s\n", ix.Path())
	}
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
