// Command prover answers first-order logic queries against YAML
// knowledge-base files, by resolution or by backward chaining.
//
// Note that equality is not built in: knowledge bases that reason about
// equality must axiomatise it (reflexivity, symmetry, transitivity and
// substitution for every function and predicate symbol).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/herbrand/fol-engine/chaining"
	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/parser"
	"github.com/herbrand/fol-engine/resolution"
)

var (
	kbPaths  []string
	debug    bool
	explain  bool
	maxSteps int
	strategy string
	useList  bool
)

var strategies = map[string]resolution.PairLess{
	"units":    resolution.PreferUnits,
	"shortest": resolution.PreferFewerLiterals,
	"fifo":     resolution.FIFO,
}

func main() {
	root := &cobra.Command{
		Use:           "prover",
		Short:         "A first-order logic theorem prover",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringArrayVarP(&kbPaths, "kb", "f", nil, "knowledge-base YAML file (repeatable)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	askCmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Prove queries by refutation resolution",
		RunE:  runAsk,
	}
	askCmd.Flags().BoolVar(&explain, "explain", false, "print the derivation of each positive result")
	askCmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "bound on resolution steps per query (0 = unbounded)")
	askCmd.Flags().StringVar(&strategy, "strategy", "units", "pair priority: units, shortest or fifo")
	askCmd.Flags().BoolVar(&useList, "list-store", false, "use the linear clause store instead of the feature-vector index")

	chainCmd := &cobra.Command{
		Use:   "chain [goal...]",
		Short: "Prove goals by backward chaining over definite clauses",
		RunE:  runChain,
	}
	chainCmd.Flags().BoolVar(&explain, "explain", false, "print every proof tree")

	cnfCmd := &cobra.Command{
		Use:   "cnf [sentence...]",
		Short: "Print the clausal form of sentences",
		RunE:  runCNF,
	}

	root.AddCommand(askCmd, chainCmd, cnfCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// queries merges the command-line queries with the documents' defaults.
func queries(args, defaults []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(defaults) == 0 {
		return nil, fmt.Errorf("no queries: pass them as arguments or in a 'queries:' section")
	}
	return defaults, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()
	sentences, defaults, err := loadAll(kbPaths)
	if err != nil {
		return err
	}
	priority, ok := strategies[strategy]
	if !ok {
		return fmt.Errorf("unknown strategy %q", strategy)
	}
	config := resolution.DefaultConfig()
	config.Priority = priority
	config.MaxSteps = maxSteps
	if useList {
		config.Store = resolution.NewListStore()
	}
	kb := resolution.NewKnowledgeBase(config, logger)
	kb.TellMany(sentences)

	qs, err := queries(args, defaults)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	for _, text := range qs {
		goal, err := parser.Sentence(text)
		if err != nil {
			return err
		}
		query, err := kb.NewQuery(goal)
		if err != nil {
			return err
		}
		err = query.Complete(ctx)
		if err != nil {
			query.Dispose()
			return err
		}
		result, err := query.Result()
		if err != nil {
			query.Dispose()
			return err
		}
		fmt.Printf("%s: %t\n", goal, result)
		if explain && result {
			explanation, err := query.Explain()
			if err != nil {
				query.Dispose()
				return err
			}
			fmt.Print(explanation)
		}
		query.Dispose()
	}
	return nil
}

func runChain(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()
	sentences, defaults, err := loadAll(kbPaths)
	if err != nil {
		return err
	}
	kb := chaining.NewKnowledgeBase(logger)
	if err := kb.TellMany(sentences); err != nil {
		return err
	}
	qs, err := queries(args, defaults)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	for _, text := range qs {
		goal, err := parser.Predicate(text)
		if err != nil {
			return err
		}
		query := kb.NewQuery(goal)
		if err := query.Complete(ctx); err != nil {
			return err
		}
		proofs, err := query.Proofs()
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d proof(s)\n", goal, len(proofs))
		for _, p := range proofs {
			fmt.Printf("  %s\n", p.Answer())
		}
		if explain && len(proofs) > 0 {
			explanation, err := query.Explain()
			if err != nil {
				return err
			}
			fmt.Print(explanation)
		}
	}
	return nil
}

func runCNF(cmd *cobra.Command, args []string) error {
	sentences, _, err := loadAll(kbPaths)
	if err != nil {
		return err
	}
	for _, text := range args {
		s, err := parser.Sentence(text)
		if err != nil {
			return err
		}
		sentences = append(sentences, s)
	}
	for _, s := range sentences {
		fmt.Printf("%s:\n", s)
		for _, c := range cnf.Convert(s).Clauses() {
			fmt.Printf("  %s\n", c)
		}
	}
	return nil
}
