package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rvdmeer/hyponorm/internal/calculation"
	"github.com/rvdmeer/hyponorm/internal/config"
	"github.com/rvdmeer/hyponorm/internal/rules"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "hyponorm",
	Short: "Dutch mortgage affordability and monthly-cost calculator",
	Long:  "Calculates maximum mortgages under the national affordability norms and net monthly costs under the Dutch box-1 tax rules",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "hyponorm %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

// appContext bundles the loaded settings, logger and fiscal data.
type appContext struct {
	settings *config.Settings
	logger   *zap.Logger
	parser   *config.InputParser
	store    *rules.Store
}

func newAppContext(needTables bool) (*appContext, error) {
	settings, err := config.LoadSettings(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(settings)
	if err != nil {
		return nil, err
	}

	app := &appContext{
		settings: settings,
		logger:   logger,
		store:    rules.NewStore(settings.RulesDir, logger),
	}

	if needTables {
		tables, err := rules.LoadNormTables(settings.NormTablesPath, logger)
		if err != nil {
			return nil, err
		}
		app.parser = config.NewInputParser(tables)
	} else {
		app.parser = config.NewInputParser(nil)
	}
	return app, nil
}

func affordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "afford [request-file]",
		Short: "Calculate the maximum mortgage for a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(true)
			if err != nil {
				return err
			}
			defer app.logger.Sync()

			input, err := app.parser.LoadAffordabilityInput(args[0])
			if err != nil {
				return err
			}

			calc := calculation.NewAffordabilityCalculator(app.parser.Tables)
			result, err := calc.Calculate(input)
			if err != nil {
				return err
			}

			app.logger.Info("affordability calculated",
				zap.String("max_total_box1", result.Scenario1.Annuity.MaxTotalBox1.String()),
				zap.Bool("second_scenario", result.Scenario2 != nil))
			return writeOutput(cmd.OutOrStdout(), outputFormat, result)
		},
	}
}

func monthlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly [request-file]",
		Short: "Calculate the net monthly cost of a structured mortgage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(false)
			if err != nil {
				return err
			}
			defer app.logger.Sync()

			req, err := app.parser.LoadMonthlyCostsRequest(args[0])
			if err != nil {
				return err
			}

			yearRules, err := app.store.Get(req.FiscalYear)
			if err != nil {
				return err
			}

			calc := calculation.NewMonthlyCostsCalculator(yearRules)
			result, err := calc.Calculate(req)
			if err != nil {
				return err
			}

			app.logger.Info("monthly costs calculated",
				zap.Int("fiscal_year", req.FiscalYear),
				zap.String("net_monthly", result.NetMonthlyCost.String()))
			return writeOutput(cmd.OutOrStdout(), outputFormat, result)
		},
	}
}

func aowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aow [birth-date]",
		Short: "Classify a birth date against the statutory retirement age",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(false)
			if err != nil {
				return err
			}
			defer app.logger.Sync()

			birthDate, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid birth date %q (want YYYY-MM-DD): %w", args[0], err)
			}

			reference := time.Now()
			if ref, _ := cmd.Flags().GetString("reference-date"); ref != "" {
				reference, err = time.Parse("2006-01-02", ref)
				if err != nil {
					return fmt.Errorf("invalid reference date %q (want YYYY-MM-DD): %w", ref, err)
				}
			}

			table, err := rules.LoadAOWTable(app.settings.AOWTablePath, app.logger)
			if err != nil {
				return err
			}

			classification := calculation.NewAOWCalculator(table).Classify(birthDate, reference)
			return writeOutput(cmd.OutOrStdout(), outputFormat, classification)
		},
	}
	cmd.Flags().String("reference-date", "", "Reference date (YYYY-MM-DD, default today)")
	return cmd
}

func yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the fiscal years with rule files",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(false)
			if err != nil {
				return err
			}
			defer app.logger.Sync()

			years, err := app.store.AvailableYears()
			if err != nil {
				return err
			}
			for _, year := range years {
				fmt.Fprintln(cmd.OutOrStdout(), year)
			}
			return nil
		},
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default hyponorm.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format: yaml or json")

	rootCmd.AddCommand(affordCmd())
	rootCmd.AddCommand(monthlyCmd())
	rootCmd.AddCommand(aowCmd())
	rootCmd.AddCommand(yearsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
