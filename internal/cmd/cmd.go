package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chrrivee/HerculesPi/internal/config"
	"github.com/chrrivee/HerculesPi/internal/installer"
	"github.com/chrrivee/HerculesPi/internal/server"
)

var RootCmd = &cobra.Command{
	Use:   "hercules",
	Short: "system resource monitor with optional motion-sensor readout",
	Long:  "system resource monitor with optional motion-sensor readout",
}

func RunCmdRunE(cmd *cobra.Command, args []string) error {
	server.NewMainApp(cmd, args).PrepareRun().Run()
	return nil
}

func RunCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "default configuration path")
	cmd.Flags().BoolP("compact", "c", false, "compact display mode")
	cmd.Flags().BoolP("sensors", "s", false, "enable gyroscope/accelerometer monitoring via USB")
	cmd.Flags().Uint64P("interval", "n", config.DefaultUpdateIntervalMS, "display refresh interval in milliseconds")
	cmd.Flags().BoolP("processes", "p", false, "show top processes")
	cmd.Flags().Bool("api", false, "serve the HTTP status API")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

var RunCmd = &cobra.Command{
	Use: "run",
	SuggestFor: []string{
		"ru", "star",
	},
	Short: "run starts the monitor using predefined configs.",
	Long: `run starts the monitor using predefined configs, by the following order:
1. path specified in --config flag
2. path defined in HERCULES_CONFIG environment variable
3. default location $HOME/.config/hercules/config.yaml, /etc/hercules/config.yaml, current directory
The parameters in the configuration file will be overwritten by the following order:
1. command line arguments
2. environment variables
`,
	Example: `  hercules run --sensors --compact
  hercules run --config=/path/to/config`,
	RunE: RunCmdRunE,
}

var CompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "compact prints a one-shot condensed report",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := server.NewMainApp(cmd, args).PrepareRun()
		opt := app.GetOpt()
		opt.Monitor.Compact = true
		opt.Monitor.Continuous = false
		app.Run()
		return nil
	},
}

var SensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "sensors prints a one-shot report with the motion sensor enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := server.NewMainApp(cmd, args).PrepareRun()
		opt := app.GetOpt()
		opt.Sensor.Enabled = true
		opt.Monitor.Continuous = false
		app.Run()
		return nil
	},
}

var DashCmd = &cobra.Command{
	Use:   "dash",
	Short: "dash opens the live terminal dashboard",
	Long:  "dash opens the live terminal dashboard. Press q or Ctrl-C to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.NewMainApp(cmd, args).PrepareRun().RunDashboard()
	},
}

var ConfCmd = &cobra.Command{
	Use:   "conf [property] [value]",
	Short: "conf shows or changes persisted settings",
	Long: `conf without arguments prints the effective configuration.
With a property and a value it updates the config file, e.g.:
  hercules conf sensor.enabled true
  hercules conf monitor.update_interval_ms 500`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return config.DisplayConfig(cmd)
		}
		return config.HandleConfCommand(cmd, args[0], args[1])
	},
}

var ConfResetCmd = &cobra.Command{
	Use:   "conf-reset",
	Short: "conf-reset restores the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.ResetConfig(cmd)
	},
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "specify output path")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init creates a configuration template",
	Long: `init creates a configuration template.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified.
Otherwise init writes the configuration to $HOME/.config/hercules/config.yaml.
If --yes / -y flag is present, an existing file is overwritten without confirmation.
`,
	Example: `  hercules init --print
  hercules init -o /path/to/config.yaml -y`,
	RunE: config.InitCfg,
}

var ProbeCmd = &cobra.Command{
	Use: "probe",
	SuggestFor: []string{
		"pro", "pr", "prob",
	},
	Short: "probe scans for compatible motion sensors",
	Long: `probe scans the HID bus and serial ports for compatible motion sensors
and prints the result to stdout.`,
	Example: `  hercules probe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.NewMainApp(cmd, args).PrepareRun().ProbeSensor()
	},
}

var InstallerCmd = &cobra.Command{
	Use:   "installer",
	Short: "installer installs, verifies or removes the system-wide binary",
	Run: func(cmd *cobra.Command, args []string) {
		installer.PromptInstall()
	},
}

func getRootCmd() *cobra.Command {
	RunCmdFlags(RunCmd)
	RootCmd.AddCommand(RunCmd)

	for _, c := range []*cobra.Command{CompactCmd, SensorsCmd, DashCmd, ConfCmd, ConfResetCmd, ProbeCmd} {
		c.Flags().String("config", "", "default configuration path")
		c.Flags().Bool("debug", false, "toggle debug logging")
		RootCmd.AddCommand(c)
	}

	InitCmdFlags(InitCmd)
	InitCmd.Flags().String("config", "", "default configuration path")
	RootCmd.AddCommand(InitCmd)

	RootCmd.AddCommand(InstallerCmd)

	return RootCmd
}

func Execute() {
	rootCmd := getRootCmd()
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
