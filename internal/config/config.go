package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chrrivee/HerculesPi/internal/utils"
)

const DefaultAppName = "hercules"
const DefaultConfigName = "config"
const DefaultUpdateIntervalMS = 1000
const DefaultSensorIntervalMS = 100
const DefaultMaxProcesses = 10
const DefaultAPIInterface = "0.0.0.0"
const DefaultAPIPort = 18089

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config/"+DefaultAppName+"/"+DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

type MonitorOpt struct {
	UpdateIntervalMS uint64 `yaml:"update_interval_ms"`
	ShowCPU          bool   `yaml:"show_cpu"`
	ShowMemory       bool   `yaml:"show_memory"`
	ShowDisk         bool   `yaml:"show_disk"`
	ShowNetwork      bool   `yaml:"show_network"`
	ShowProcesses    bool   `yaml:"show_processes"`
	MaxProcesses     int    `yaml:"max_processes"`
	Continuous       bool   `yaml:"continuous"`
	Compact          bool   `yaml:"compact"`
}

type SensorOpt struct {
	Enabled          bool   `yaml:"enabled"`
	UpdateIntervalMS uint64 `yaml:"update_interval_ms"`
	UseCelsius       bool   `yaml:"use_celsius"`
	SerialPort       string `yaml:"serial_port"`
	SerialBaud       int    `yaml:"serial_baud"`
}

type APIOpt struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Interface string `yaml:"interface"`
}

type HerculesOpt struct {
	Monitor MonitorOpt `yaml:"monitor"`
	Sensor  SensorOpt  `yaml:"sensor"`
	API     APIOpt     `yaml:"api"`
	Debug   bool       `yaml:"debug"`
}

type HerculesDesc struct {
	Opt   HerculesOpt
	Viper *viper.Viper
}

func NewHerculesDesc() HerculesDesc {
	return HerculesDesc{
		Opt:   NewHerculesOpt(),
		Viper: nil,
	}
}

func NewHerculesOpt() HerculesOpt {
	return HerculesOpt{
		Monitor: MonitorOpt{
			UpdateIntervalMS: DefaultUpdateIntervalMS,
			ShowCPU:          true,
			ShowMemory:       true,
			ShowDisk:         true,
			ShowNetwork:      true,
			ShowProcesses:    false,
			MaxProcesses:     DefaultMaxProcesses,
			Continuous:       true,
			Compact:          false,
		},
		Sensor: SensorOpt{
			Enabled:          false,
			UpdateIntervalMS: DefaultSensorIntervalMS,
			UseCelsius:       true,
		},
		API: APIOpt{
			Enabled:   false,
			Port:      DefaultAPIPort,
			Interface: DefaultAPIInterface,
		},
		Debug: false,
	}
}

func (o *HerculesDesc) Parse(cmd *cobra.Command) error {
	vipCfg := viper.New()
	vipCfg.SetDefault("monitor.update_interval_ms", DefaultUpdateIntervalMS)
	vipCfg.SetDefault("monitor.show_cpu", true)
	vipCfg.SetDefault("monitor.show_memory", true)
	vipCfg.SetDefault("monitor.show_disk", true)
	vipCfg.SetDefault("monitor.show_network", true)
	vipCfg.SetDefault("monitor.show_processes", false)
	vipCfg.SetDefault("monitor.max_processes", DefaultMaxProcesses)
	vipCfg.SetDefault("monitor.continuous", true)
	vipCfg.SetDefault("monitor.compact", false)
	vipCfg.SetDefault("sensor.enabled", false)
	vipCfg.SetDefault("sensor.update_interval_ms", DefaultSensorIntervalMS)
	vipCfg.SetDefault("sensor.use_celsius", true)
	vipCfg.SetDefault("api.enabled", false)
	vipCfg.SetDefault("api.port", DefaultAPIPort)
	vipCfg.SetDefault("api.interface", DefaultAPIInterface)
	vipCfg.SetDefault("debug", false)

	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		vipCfg.SetConfigFile(configFileCmd)
	} else {
		configFileEnv := os.Getenv("HERCULES_CONFIG")
		if configFileEnv != "" {
			vipCfg.SetConfigFile(configFileEnv)
		} else {
			vipCfg.SetConfigName(DefaultConfigName)
			vipCfg.SetConfigType("yaml")
			vipCfg.AddConfigPath(DefaultConfigSearchPath0)
			vipCfg.AddConfigPath(DefaultConfigSearchPath1)
			vipCfg.AddConfigPath(DefaultConfigSearchPath2)
		}
	}
	vipCfg.WatchConfig()

	vipCfg.SetEnvPrefix(DefaultAppName)
	vipCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vipCfg.AutomaticEnv()

	_ = vipCfg.BindPFlag("monitor.compact", cmd.Flags().Lookup("compact"))
	_ = vipCfg.BindPFlag("monitor.update_interval_ms", cmd.Flags().Lookup("interval"))
	_ = vipCfg.BindPFlag("monitor.show_processes", cmd.Flags().Lookup("processes"))
	_ = vipCfg.BindPFlag("sensor.enabled", cmd.Flags().Lookup("sensors"))
	_ = vipCfg.BindPFlag("api.enabled", cmd.Flags().Lookup("api"))
	_ = vipCfg.BindPFlag("debug", cmd.Flags().Lookup("debug"))

	// If a config file is found, read it in.
	if err := vipCfg.ReadInConfig(); err == nil {
		log.Debugln("using config file:", vipCfg.ConfigFileUsed())
	} else {
		log.Debugln(err)
	}

	if err := vipCfg.Unmarshal(&o.Opt); err != nil {
		log.Fatalln("failed to unmarshal config")
		os.Exit(1)
	}

	o.Viper = vipCfg
	return nil
}

func (o *HerculesDesc) PostParse() {
	if o.Opt.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func (o *HerculesDesc) SaveConfig() error {
	if o.Viper == nil {
		return errors.New("viper is nil")
	}
	target := o.Viper.ConfigFileUsed()
	if target == "" {
		target = DefaultConfig
	}
	if err := os.MkdirAll(path.Dir(target), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	w := bufio.NewWriter(f)
	s, _ := yaml.Marshal(o.Opt)
	_, err = w.Write(s)
	if err != nil {
		return err
	}
	return w.Flush()
}

// SetProperty updates one option by its dotted name, with the loose boolean
// parsing the conf command accepts.
func SetProperty(opt *HerculesOpt, property, value string) error {
	switch property {
	case "monitor.update_interval_ms":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number for %s", property)
		}
		opt.Monitor.UpdateIntervalMS = v
	case "monitor.show_cpu":
		return setBool(&opt.Monitor.ShowCPU, value)
	case "monitor.show_memory":
		return setBool(&opt.Monitor.ShowMemory, value)
	case "monitor.show_disk":
		return setBool(&opt.Monitor.ShowDisk, value)
	case "monitor.show_network":
		return setBool(&opt.Monitor.ShowNetwork, value)
	case "monitor.show_processes":
		return setBool(&opt.Monitor.ShowProcesses, value)
	case "monitor.max_processes":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid number for %s", property)
		}
		opt.Monitor.MaxProcesses = v
	case "monitor.continuous":
		return setBool(&opt.Monitor.Continuous, value)
	case "monitor.compact":
		return setBool(&opt.Monitor.Compact, value)
	case "sensor.enabled":
		return setBool(&opt.Sensor.Enabled, value)
	case "sensor.update_interval_ms":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil || v == 0 {
			return fmt.Errorf("invalid number for %s", property)
		}
		opt.Sensor.UpdateIntervalMS = v
	case "sensor.use_celsius":
		return setBool(&opt.Sensor.UseCelsius, value)
	case "sensor.serial_port":
		opt.Sensor.SerialPort = value
	case "sensor.serial_baud":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid number for %s", property)
		}
		opt.Sensor.SerialBaud = v
	case "api.enabled":
		return setBool(&opt.API.Enabled, value)
	case "api.port":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 || v > 65535 {
			return fmt.Errorf("invalid port for %s", property)
		}
		opt.API.Port = v
	case "api.interface":
		opt.API.Interface = value
	case "debug":
		return setBool(&opt.Debug, value)
	default:
		return fmt.Errorf("unknown property %q, available:\n%s", property, PropertyHelp())
	}
	return nil
}

func setBool(dst *bool, value string) error {
	v, err := ParseBool(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// ParseBool accepts the usual spellings of a flag value.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on", "enable", "enabled":
		return true, nil
	case "false", "0", "no", "off", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q, use true/false, 1/0, yes/no, on/off", value)
}

func PropertyHelp() string {
	properties := [][2]string{
		{"monitor.update_interval_ms", "display refresh interval in milliseconds"},
		{"monitor.show_cpu", "show CPU information (true/false)"},
		{"monitor.show_memory", "show memory information (true/false)"},
		{"monitor.show_disk", "show disk information (true/false)"},
		{"monitor.show_network", "show network information (true/false)"},
		{"monitor.show_processes", "show top processes (true/false)"},
		{"monitor.max_processes", "maximum processes to show"},
		{"monitor.continuous", "run continuously (true/false)"},
		{"monitor.compact", "compact display mode (true/false)"},
		{"sensor.enabled", "enable motion sensor monitoring (true/false)"},
		{"sensor.update_interval_ms", "sensor poll interval in milliseconds"},
		{"sensor.use_celsius", "sensor temperature in Celsius (true/false)"},
		{"sensor.serial_port", "serial port of a tty-attached sensor"},
		{"sensor.serial_baud", "serial baud rate"},
		{"api.enabled", "enable the HTTP status API (true/false)"},
		{"api.port", "HTTP API port"},
		{"api.interface", "HTTP API listen interface"},
		{"debug", "toggle debug logging (true/false)"},
	}
	var b strings.Builder
	for _, p := range properties {
		fmt.Fprintf(&b, "  %-28s - %s\n", p[0], p[1])
	}
	return b.String()
}

// HandleConfCommand implements `hercules conf <property> <value>`.
func HandleConfCommand(cmd *cobra.Command, property, value string) error {
	desc := NewHerculesDesc()
	if err := desc.Parse(cmd); err != nil {
		return err
	}
	if err := SetProperty(&desc.Opt, property, value); err != nil {
		return err
	}
	if err := desc.SaveConfig(); err != nil {
		return err
	}
	fmt.Printf("configuration updated: %s -> %s\n", property, value)
	return nil
}

// DisplayConfig prints the effective configuration as yaml.
func DisplayConfig(cmd *cobra.Command) error {
	desc := NewHerculesDesc()
	if err := desc.Parse(cmd); err != nil {
		return err
	}
	buf, _ := yaml.Marshal(desc.Opt)
	if file := desc.Viper.ConfigFileUsed(); file != "" {
		fmt.Println("config file:", file)
	}
	fmt.Println(string(buf))
	fmt.Println("available properties:")
	fmt.Print(PropertyHelp())
	return nil
}

// ResetConfig writes the defaults back to the config file.
func ResetConfig(cmd *cobra.Command) error {
	desc := NewHerculesDesc()
	if err := desc.Parse(cmd); err != nil {
		return err
	}
	desc.Opt = NewHerculesOpt()
	if err := desc.SaveConfig(); err != nil {
		return err
	}
	fmt.Println("configuration reset to defaults")
	return nil
}

// InitCfg prepares a config file template for the application.
func InitCfg(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwriteFlag, _ := cmd.Flags().GetBool("yes")

	desc := NewHerculesDesc()
	err := desc.Parse(cmd)
	if err != nil {
		log.Errorln(err)
		return err
	}

	if printFlag {
		configBuffer, _ := yaml.Marshal(desc.Opt)
		fmt.Println(string(configBuffer))
	} else {
		utils.DumpOption(desc.Opt, outputPath, overwriteFlag)
	}
	return nil
}
