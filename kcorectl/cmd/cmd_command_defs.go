package cmd

import (
	"github.com/spf13/cobra"
)

var kcorectlCmd = &cobra.Command{
	Use:   "kcorectl",
	Short: "A command-line tool for running and inspecting the kcore scheduling simulation.",
	Run:   runRoot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot a kernel, run a built-in or pack-loaded scenario, and print the process table.",
	Run:   runScenario,
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Boot a kernel and serve a live dashboard over its process table.",
	Run:   runUI,
}

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"src"},
	Short:   "Introspect a scenario pack's git history.",
	Run:     runSource,
}

var changesCmd = &cobra.Command{
	Use:     "changes [repo-url]",
	Aliases: []string{"c"},
	Short:   "List all changes that have happened in a scenario pack repository.",
	Run:     runChangesSource,
}

var contribCmd = &cobra.Command{
	Use:   "contrib [repo-url]",
	Short: "Summarize contributions to a scenario pack repository.",
	Run:   runContribList,
}

var diffCmd = &cobra.Command{
	Use:   "diff [repo-url]",
	Short: "Diff the commits between two tags of a scenario pack repository.",
	Run:   runDiffSource,
}

var artifactsCmd = &cobra.Command{
	Use:     "artifacts",
	Aliases: []string{"a"},
	Short:   "Retrieve scenario pack release artifacts from GitHub.",
	Run:     runArtifacts,
}

var artifactsListCmd = &cobra.Command{
	Use:   "list [github-url]",
	Short: "List every release and its artifacts for a GitHub-hosted scenario pack.",
	Run:   runListArtifacts,
}

var artifactsGetCmd = &cobra.Command{
	Use:   "get [github-url]",
	Short: "Get the artifacts for a single tagged release.",
	Run:   runGetArtifacts,
}
