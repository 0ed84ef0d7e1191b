// Package cmd implements kcorectl, the full command-line interface over
// the kcore scheduling simulation: running scenarios against any of the
// five policies, serving a live dashboard, and introspecting a scenario
// pack repository's git history. It is the richer counterpart to the
// root-level kcore quick-run binary, the same two-binary split the
// source CLI used.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arctir/kcore/host"
	"github.com/arctir/kcore/kernel"
	"github.com/arctir/kcore/kernel/policy"
	"github.com/arctir/kcore/platforms/github"
	"github.com/arctir/kcore/scenario"
	"github.com/arctir/kcore/source"
	"github.com/arctir/kcore/syscall"
	"github.com/arctir/kcore/ui"
)

// SetupCLI constructs the cobra hierarchy to create the kcorectl CLI.
func SetupCLI() *cobra.Command {
	kcorectlCmd.AddCommand(runCmd)
	kcorectlCmd.AddCommand(uiCmd)
	kcorectlCmd.AddCommand(sourceCmd)
	sourceCmd.AddCommand(changesCmd)
	sourceCmd.AddCommand(contribCmd)
	sourceCmd.AddCommand(diffCmd)
	sourceCmd.AddCommand(artifactsCmd)
	artifactsCmd.AddCommand(artifactsListCmd)
	artifactsCmd.AddCommand(artifactsGetCmd)

	return kcorectlCmd
}

func runRoot(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func runSource(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func runArtifacts(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func newSchedOpts(fs *pflag.FlagSet) schedOpts {
	p, _ := fs.GetString(policyFlag)
	c, _ := fs.GetInt(cpusFlag)
	d, _ := fs.GetUint64(durationFlag)
	v, _ := fs.GetBool(verboseFlag)
	pk, _ := fs.GetString(packFlag)
	return schedOpts{policy: p, cpus: c, durationMs: d, verbose: v, pack: pk}
}

// loadWorkload resolves the scenario to run: the built-in Heavy
// scenario, or the first Program in a local pack file if --pack
// was given.
func loadWorkload(tbl *syscall.Table, packPath string) (kernel.Workload, string, error) {
	if packPath == "" {
		return scenario.Heavy().Workload(tbl), "heavy", nil
	}
	data, err := os.ReadFile(packPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading pack file: %s", err)
	}
	pack, err := scenario.ParsePack(data)
	if err != nil {
		return nil, "", err
	}
	if len(pack.Programs) == 0 {
		return nil, "", fmt.Errorf("pack file %s contains no programs", packPath)
	}
	prog := pack.Programs[0]
	return prog.Workload(tbl), prog.Name, nil
}

func buildKernel(opts schedOpts, log zerolog.Logger) (*kernel.Kernel, error) {
	p, err := policy.New(opts.policy)
	if err != nil {
		return nil, err
	}
	ncpu := opts.cpus
	if ncpu <= 0 {
		ncpu = host.DefaultCPUCount()
	}
	return kernel.NewKernel(kernel.Config{
		NumCPU:       ncpu,
		Policy:       p,
		TickInterval: time.Millisecond,
		Logger:       log,
	}), nil
}

// runScenario defines the behavior of running: `kcorectl run ...`
func runScenario(cmd *cobra.Command, args []string) {
	opts := newSchedOpts(cmd.Flags())
	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	k, err := buildKernel(opts, log)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	tbl := syscall.NewTable(k, log)

	wl, name, err := loadWorkload(tbl, opts.pack)
	if err != nil {
		outputErrorAndFail(err.Error())
	}

	init, err := k.Boot(wl)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("booting kernel: %s", err))
	}
	log.Info().Str("scenario", name).Int("init_pid", init.Pid).Msg("scenario started")

	deadline := time.Duration(opts.durationMs) * time.Millisecond
	if deadline <= 0 {
		deadline = 5 * time.Second
	}
	time.Sleep(deadline)
	k.Stop()

	if opts.verbose {
		output([]byte(k.ProcDumpVerbose(k.ControlCPU())))
	} else {
		output([]byte(k.ProcDump(k.ControlCPU())))
	}
}

// runUI defines the behavior of running: `kcorectl ui ...`
func runUI(cmd *cobra.Command, args []string) {
	opts := newSchedOpts(cmd.Flags())
	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	k, err := buildKernel(opts, log)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	tbl := syscall.NewTable(k, log)

	wl, name, err := loadWorkload(tbl, opts.pack)
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	if _, err := k.Boot(wl); err != nil {
		outputErrorAndFail(fmt.Sprintf("booting kernel: %s", err))
	}
	log.Info().Str("scenario", name).Msg("scenario started; serving dashboard")

	dash := ui.New(k, k.ControlCPU())
	dash.RunUI()
}

// runChangesSource defines the behavior of running: `kcorectl source changes [repo-url]`
func runChangesSource(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		outputErrorAndFail("a repository URL must be provided")
	}
	repoURL := args[0]

	gm := source.NewGitManager()
	repo, err := source.ResolveRepo(repoURL, source.ResolveRepoOpts{InMemory: true})
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving repository: %s", err))
	}

	commits, err := gm.GetCommits(*repo)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed retrieving commits: %s", err))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Hash", "Date", "Author", "Title"})
	for _, c := range commits {
		table.Append([]string{
			c.Hash.String()[:8],
			c.Date.Format(time.RFC3339),
			c.Author.Name,
			firstLine(c.Message),
		})
	}
	table.Render()
}

// runContribList defines the behavior of running: `kcorectl source contrib [repo-url]`
func runContribList(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		outputErrorAndFail("a repository URL must be provided")
	}
	repoURL := args[0]
	tag, _ := cmd.Flags().GetString(tagFlag)

	gm := source.NewGitManager()
	repo, err := source.ResolveRepo(repoURL, source.ResolveRepoOpts{InMemory: true})
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving repository: %s", err))
	}

	var commits []source.Commit
	if tag != "" {
		commits, err = gm.GetCommitsForTag(tag, *repo)
	} else {
		commits, err = gm.GetCommits(*repo)
	}
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed retrieving commits: %s", err))
	}

	counts := map[string]int{}
	for _, c := range commits {
		counts[c.Author.Name]++
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Author", "Commits"})
	for author, n := range counts {
		table.Append([]string{author, fmt.Sprintf("%d", n)})
	}
	table.Render()
}

// runDiffSource defines the behavior of running: `kcorectl source diff [repo-url]`
func runDiffSource(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		outputErrorAndFail("a repository URL must be provided")
	}
	repoURL := args[0]
	tagOne, _ := cmd.Flags().GetString(tagOneFlag)
	tagTwo, _ := cmd.Flags().GetString(tagTwoFlag)
	if tagOne == "" || tagTwo == "" {
		outputErrorAndFail("both --tag1 and --tag2 must be provided")
	}

	gm := source.NewGitManager()
	repo, err := source.ResolveRepo(repoURL, source.ResolveRepoOpts{InMemory: true})
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving repository: %s", err))
	}

	commitsOne, err := gm.GetCommitsForTag(tagOne, *repo)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed retrieving commits for %s: %s", tagOne, err))
	}
	commitsTwo, err := gm.GetCommitsForTag(tagTwo, *repo)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed retrieving commits for %s: %s", tagTwo, err))
	}

	seen := make(map[source.Hash]bool, len(commitsTwo))
	for _, c := range commitsTwo {
		seen[c.Hash] = true
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Hash", "Date", "Author", "Title"})
	for _, c := range commitsOne {
		if seen[c.Hash] {
			continue
		}
		table.Append([]string{
			c.Hash.String()[:8],
			c.Date.Format(time.RFC3339),
			c.Author.Name,
			firstLine(c.Message),
		})
	}
	table.Render()
}

// runListArtifacts defines the behavior of running: `kcorectl source artifacts list [github-url]`
func runListArtifacts(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		outputErrorAndFail("a GitHub repository (org/repo) must be provided")
	}
	repoURL := args[0]

	gm := github.NewGHManager()
	releases, err := gm.GetArtifacts(repoURL)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed retrieving releases: %s", err))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Release", "Tag", "Artifact"})
	for _, r := range releases {
		if len(r.Artifacts) == 0 {
			table.Append([]string{r.Name, r.Tag, "-"})
			continue
		}
		for _, a := range r.Artifacts {
			table.Append([]string{r.Name, r.Tag, a.Name})
		}
	}
	table.Render()
}

// runGetArtifacts defines the behavior of running: `kcorectl source artifacts get [github-url]`
func runGetArtifacts(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		outputErrorAndFail("a GitHub repository (org/repo) must be provided")
	}
	repoURL := args[0]
	tag, _ := cmd.Flags().GetString(tagFlag)

	gm := github.NewGHManager()
	releases, err := gm.GetArtifacts(repoURL)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed retrieving releases: %s", err))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Artifact", "Content-Type", "URL"})
	for _, r := range releases {
		if tag != "" && r.Tag != tag {
			continue
		}
		for _, a := range r.Artifacts {
			table.Append([]string{a.Name, a.ContentType, a.URL})
		}
	}
	table.Render()
}

// firstLine returns the first line of a commit message, used to keep
// table rows to a single line.
func firstLine(msg []byte) string {
	for i, b := range msg {
		if b == '\n' {
			return string(msg[:i])
		}
	}
	return string(msg)
}

func output(out []byte) {
	fmt.Printf("%s", out)
}

func outputErrorAndFail(msg string) {
	fmt.Println(msg)
	os.Exit(1)
}
