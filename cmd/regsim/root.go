package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/regsim/busmaster"
	"github.com/sarchlab/regsim/regbank"
	"github.com/sarchlab/regsim/simulation"
)

var (
	policyName      string
	depth           int
	dataWidth       int
	resetValue      uint64
	numTransactions int
	seed            int64
	traceFileName   string
	noTrace         bool
	monitorOn       bool
	monitorPort     int
	openMonitor     bool
)

var rootCmd = &cobra.Command{
	Use:   "regsim",
	Short: "regsim simulates a synchronous, bus-accessed register bank",
	Long: `regsim simulates a synchronous, bus-accessed register bank. ` +
		`A bus master plays a randomized write/read-back program against ` +
		`the bank using one of three bus timing policies, and every read ` +
		`is verified against a software model of the registers.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSimulation()
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&policyName, "policy", "two-phase",
		"bus timing policy: two-phase, three-phase, or combinational")
	rootCmd.Flags().IntVar(&depth, "depth", 32,
		"number of registers, must be a power of two")
	rootCmd.Flags().IntVar(&dataWidth, "data-width", 8,
		"width of each register in bits")
	rootCmd.Flags().Uint64Var(&resetValue, "reset-value", 0xAA,
		"value every register holds after reset")
	rootCmd.Flags().IntVar(&numTransactions, "num-transactions", 100,
		"number of randomized transactions to play")
	rootCmd.Flags().Int64Var(&seed, "seed", 0,
		"random seed of the transaction program")
	rootCmd.Flags().StringVar(&traceFileName, "trace-file", "",
		"name of the recorded database, without extension")
	rootCmd.Flags().BoolVar(&noTrace, "no-trace", false,
		"disable access recording")
	rootCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"start the monitoring server")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port of the monitoring server")
	rootCmd.Flags().BoolVar(&openMonitor, "open", false,
		"open the monitoring API in a browser")
}

func parsePolicy(name string) (regbank.Policy, error) {
	switch name {
	case "two-phase":
		return regbank.TwoPhaseRegistered, nil
	case "three-phase":
		return regbank.ThreePhaseEarlyReady, nil
	case "combinational":
		return regbank.CombinationalHold, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", name)
	}
}

func monitorPortFromEnv() int {
	portStr := os.Getenv("REGSIM_MONITOR_PORT")
	if portStr == "" {
		return 0
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}

	return port
}

func buildSimulation() *simulation.Simulation {
	builder := simulation.MakeBuilder()

	if noTrace {
		builder = builder.WithoutDataRecording()
	} else if traceFileName != "" {
		builder = builder.WithOutputFileName(traceFileName)
	}

	if !monitorOn {
		builder = builder.WithoutMonitoring()
	} else {
		if monitorPort == 0 {
			monitorPort = monitorPortFromEnv()
		}
		if monitorPort > 0 {
			builder = builder.WithMonitorPort(monitorPort)
		}
	}

	return builder.Build()
}

type expectedRead struct {
	transaction *busmaster.Transaction
	value       uint64
}

func runSimulation() error {
	policy, err := parsePolicy(policyName)
	if err != nil {
		return err
	}

	s := buildSimulation()
	defer s.Terminate()

	bank := regbank.MakeBuilder().
		WithEngine(s.GetEngine()).
		WithPolicy(policy).
		WithDepth(depth).
		WithDataWidth(dataWidth).
		WithResetValue(resetValue).
		Build("RegBank")
	s.RegisterComponent(bank)

	master := busmaster.MakeBuilder().
		WithEngine(s.GetEngine()).
		WithPolicy(policy).
		Build("Master")
	s.ConnectRegBank("Bus", master.MasterEndpoint(), bank.DeviceEndpoint())

	if monitorOn {
		port := s.StartMonitor()
		if openMonitor {
			url := fmt.Sprintf("http://localhost:%d/api/list_components",
				port)
			_ = browser.OpenURL(url)
		}
	}

	expectedReads := playProgram(master)

	err = s.GetEngine().Run()
	if err != nil {
		return err
	}

	mismatches := verifyReads(expectedReads)
	fmt.Printf("%d transactions, %d reads verified, %d mismatches\n",
		numTransactions, len(expectedReads), mismatches)

	if mismatches > 0 {
		return fmt.Errorf("%d reads returned wrong data", mismatches)
	}

	return nil
}

// playProgram enqueues a reset followed by randomized writes and reads,
// tracking the expected value of every read in a software model.
func playProgram(master *busmaster.Comp) []expectedRead {
	rng := rand.New(rand.NewSource(seed))

	dataMask := ^uint64(0)
	if dataWidth < 64 {
		dataMask = (uint64(1) << dataWidth) - 1
	}

	model := make([]uint64, depth)
	for i := range model {
		model[i] = resetValue & dataMask
	}

	master.AddReset()

	var expectedReads []expectedRead
	for i := 0; i < numTransactions; i++ {
		addr := uint32(rng.Intn(depth))

		if rng.Intn(2) == 0 {
			value := rng.Uint64() & dataMask
			master.AddWrite(addr, value)
			model[addr] = value
		} else {
			expectedReads = append(expectedReads, expectedRead{
				transaction: master.AddRead(addr),
				value:       model[addr],
			})
		}
	}

	return expectedReads
}

func verifyReads(expectedReads []expectedRead) int {
	mismatches := 0

	for _, e := range expectedReads {
		if !e.transaction.Done {
			fmt.Printf("read of address %d never completed\n",
				e.transaction.Address)
			mismatches++
			continue
		}

		if e.transaction.ReadData != e.value {
			fmt.Printf(
				"read of address %d returned 0x%x, expected 0x%x\n",
				e.transaction.Address, e.transaction.ReadData, e.value)
			mismatches++
		}
	}

	return mismatches
}
