package cmd

type outputType int

const (
	jsonOut outputType = iota
	tableOut
)

const (
	outputFlag   = "output"
	authorsFlag  = "authors"
	tagFlag      = "tag"
	tagOneFlag   = "tag1"
	tagTwoFlag   = "tag2"
	policyFlag   = "policy"
	cpusFlag     = "cpus"
	durationFlag = "duration-ms"
	verboseFlag  = "verbose"
	packFlag     = "pack"
)

type schedOpts struct {
	policy     string
	cpus       int
	durationMs uint64
	verbose    bool
	pack       string
}

type sourceOpts struct {
	outType             outputType
	retrieveOnlyAuthors bool
	singleTag           string
	tagOne              string
	tagTwo              string
}

func init() {
	runCmd.Flags().StringP(policyFlag, "p", "rr", "scheduling policy: rr, fcfs, lbs, pbs, mlfq")
	runCmd.Flags().Int(cpusFlag, 0, "number of simulated CPUs (default: host CPU count)")
	runCmd.Flags().Uint64(durationFlag, 5000, "how long to let the scenario run, in milliseconds")
	runCmd.Flags().BoolP(verboseFlag, "v", false, "print a full structural dump instead of a summary table")
	runCmd.Flags().String(packFlag, "", "path to a local scenario pack JSON file to run instead of the built-in heavy scenario")

	uiCmd.Flags().StringP(policyFlag, "p", "rr", "scheduling policy: rr, fcfs, lbs, pbs, mlfq")
	uiCmd.Flags().Int(cpusFlag, 0, "number of simulated CPUs (default: host CPU count)")
	uiCmd.Flags().String(packFlag, "", "path to a local scenario pack JSON file to run instead of the built-in heavy scenario")

	contribCmd.Flags().Bool(authorsFlag, false, "Limit output to details about contributing authors.")
	contribCmd.Flags().StringP(tagFlag, "t", "", "Limit the results to a single tag.")
	diffCmd.Flags().String(tagOneFlag, "", "first tag to diff")
	diffCmd.Flags().String(tagTwoFlag, "", "second tag to diff")
	diffCmd.Flags().Bool(authorsFlag, false, "Limit output to details about contributing authors.")
	artifactsGetCmd.Flags().StringP(tagFlag, "t", "", "tag to retrieve artifacts for")
}
