// Package main provides the entry point for syntari-kerneld.
//
// syntari-kerneld is the IDE backend kernel: filesystem, search, PTY
// terminals, file watching, and AI-assist state, all reachable through
// one HTTP command endpoint and an SSE event stream.
//
// Usage:
//
//	syntari-kerneld                    Start the service (default)
//	syntari-kerneld serve               Start the service
//	syntari-kerneld version             Show version
//	syntari-kerneld status              Show service status
//	syntari-kerneld stop                Stop the running service
//	syntari-kerneld init-config         Create example configuration file
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/syntari-kernel/internal/api"
	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/dispatch"
	"github.com/ternarybob/syntari-kernel/internal/service"
)

// version is set via -ldflags at build time
var version = "dev"

var configPath string

func main() {
	api.SetVersion(version)

	args := os.Args[1:]
	command := ""
	cmdArgs := []string{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--config=") {
			configPath = strings.TrimPrefix(arg, "--config=")
		} else if arg == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			i++
		} else if strings.HasPrefix(arg, "-") {
			// skip unknown flags for now
		} else if command == "" {
			command = arg
		} else {
			cmdArgs = append(cmdArgs, arg)
		}
	}

	if command == "" {
		command = "serve"
	}

	var err error
	switch command {
	case "serve", "start":
		err = cmdServe(cmdArgs)
	case "version", "-v", "--version":
		cmdVersion()
	case "status":
		err = cmdStatus()
	case "stop":
		err = cmdStop()
	case "init-config":
		err = cmdInitConfig()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`syntari-kerneld - IDE backend kernel

Usage:
  syntari-kerneld [flags] [command] [args]

Commands:
  serve         Start the service (default)
  version       Show version information
  status        Show service status
  stop          Stop the running service
  init-config   Create example configuration file
  help          Show this help

Flags:
  --config PATH   Path to configuration file (default: config.toml in the data directory, ~/.syntari-kerneld on Linux)

Environment:
  GEMINI_API_KEY        API key for AI features (optional)
  SYNTARI_KERNEL_CONFIG Path to configuration file (alternative to --config)
  SYNTARI_KERNEL_DATA_DIR Override data directory

Examples:
  syntari-kerneld                         Start the service with defaults
  syntari-kerneld --config /path/to.toml  Start with custom config
  syntari-kerneld init-config             Create example config file
  curl localhost:8420/health              Check service health
  curl -X POST localhost:8420/command \
       -d '{"command":"initialize_app"}'  Run a kernel command`)
}

func cmdVersion() {
	fmt.Printf("syntari-kerneld version %s\n", version)
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("SYNTARI_KERNEL_CONFIG"); envPath != "" {
		return envPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if envDataDir := os.Getenv("SYNTARI_KERNEL_DATA_DIR"); envDataDir != "" {
		cfg.Service.DataDir = envDataDir
	}
	return cfg, nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if running, pid := service.IsRunning(cfg); running {
		return fmt.Errorf("service already running (PID %d)", pid)
	}

	disp := dispatch.New(cfg)
	apiServer := api.NewServer(cfg, disp)

	daemon := service.NewDaemon(cfg)
	if err := daemon.Start(apiServer.Handler()); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("syntari-kerneld v%s started on %s\n", version, cfg.Address())
	fmt.Printf("Command endpoint: http://%s/command\n", cfg.Address())
	fmt.Printf("Event stream:     http://%s/events\n", cfg.Address())

	daemon.Wait()

	return nil
}

func cmdStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid := service.IsRunning(cfg)
	if running {
		fmt.Printf("syntari-kerneld: running (PID %d)\n", pid)
		fmt.Printf("Address: %s\n", cfg.Address())
		fmt.Printf("Config: %s\n", getConfigPath())
		fmt.Printf("Data: %s\n", cfg.Service.DataDir)
	} else {
		fmt.Println("syntari-kerneld: stopped")
	}

	return nil
}

func cmdStop() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid := service.IsRunning(cfg)
	if !running {
		fmt.Println("syntari-kerneld is not running")
		return nil
	}

	fmt.Printf("Stopping syntari-kerneld (PID %d)...\n", pid)
	if err := service.StopRunning(cfg); err != nil {
		return err
	}

	fmt.Println("syntari-kerneld stopped")
	return nil
}

func cmdInitConfig() error {
	path := getConfigPath()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := config.WriteExampleConfig(path); err != nil {
		return err
	}

	fmt.Printf("Created example configuration: %s\n", path)
	return nil
}
