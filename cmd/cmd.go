// Package cmd implements kcore, the quick-run CLI: boot a kernel with a
// chosen scheduling policy, run the built-in heavy scenario for a fixed
// wall-clock duration (--duration-ms), and print the resulting process table. It is
// the root-level counterpart to kcorectl's fuller command set, the same
// two-binary split the source CLI used (a small root command, a richer
// one under its own subdirectory).
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arctir/kcore/host"
	"github.com/arctir/kcore/kernel"
	"github.com/arctir/kcore/kernel/policy"
	"github.com/arctir/kcore/scenario"
	"github.com/arctir/kcore/syscall"
)

var (
	flagPolicy  string
	flagCPUs    int
	flagTicks   uint64
	flagVerbose bool
)

var kcoreCmd = &cobra.Command{
	Use:   "kcore",
	Short: "A simulated process scheduler for a small teaching kernel.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot a kernel, run the built-in heavy scenario, and print the process table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

		p, err := policy.New(flagPolicy)
		if err != nil {
			return err
		}

		ncpu := flagCPUs
		if ncpu <= 0 {
			ncpu = host.DefaultCPUCount()
		}

		k := kernel.NewKernel(kernel.Config{
			NumCPU:       ncpu,
			Policy:       p,
			TickInterval: time.Millisecond,
			Logger:       log,
		})
		tbl := syscall.NewTable(k, log)

		init, err := k.Boot(scenario.Heavy().Workload(tbl))
		if err != nil {
			return fmt.Errorf("booting kernel: %s", err)
		}
		log.Info().Int("init_pid", init.Pid).Msg("scenario started")

		deadline := time.Duration(flagTicks) * time.Millisecond
		if deadline <= 0 {
			deadline = 10 * time.Second
		}
		time.Sleep(deadline)
		k.Stop()

		if flagVerbose {
			fmt.Println(k.ProcDumpVerbose(k.ControlCPU()))
		} else {
			fmt.Println(k.ProcDump(k.ControlCPU()))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagPolicy, "policy", policy.RoundRobin, "scheduling policy: rr, fcfs, lbs, pbs, mlfq")
	runCmd.Flags().IntVar(&flagCPUs, "cpus", 0, "number of simulated CPUs (default: host CPU count)")
	runCmd.Flags().Uint64Var(&flagTicks, "duration-ms", 5000, "how long to let the scenario run, in milliseconds")
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print a full structural dump instead of a summary table")
}

// SetupCommands wires and executes the kcore command tree, mirroring the
// source CLI's SetupCommands entrypoint shape.
func SetupCommands() *cobra.Command {
	kcoreCmd.AddCommand(runCmd)

	if err := kcoreCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return kcoreCmd
}
