package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

const usage = `Usage: jack-select [flags] [command] [args]

Select and activate JACK presets saved by QjackCtl.

Commands:
  run              Open the preset menu (default)
  list             List presets; * marks the default
  show <preset>    Show the settings of a preset
  diff <preset>    Show what activating a preset would change
  activate <name>  Activate a preset
  start            Start the JACK server
  stop             Stop the JACK server
  status           Print the JACK server status
  pid              Print the PID of the running jack-select instance

Flags:
`

type options struct {
	configPath   string
	envFile      string
	qjackctlConf string
	verbose      bool
}

func main() {
	fs := pflag.NewFlagSet("jack-select", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to configuration file (default: $JACK_SELECT_CONFIG or $XDG_CONFIG_HOME/jack-select/config.yaml)")
	fs.StringVar(&opts.envFile, "env", "", "path to .env file (ignored if missing; default: next to the config file)")
	fs.StringVar(&opts.qjackctlConf, "qjackctl-config", "", "path to QjackCtl.conf (overrides qjackctl_config)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := dispatch(ctx, opts, fs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// dispatch runs the command named by args[0].
func dispatch(ctx context.Context, opts options, args []string) error {
	cmd := "run"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		return runMenu(ctx, opts)
	case "list":
		return runList(ctx, opts, os.Stdout)
	case "show":
		name, err := presetArg(cmd, args)
		if err != nil {
			return err
		}
		return runShow(ctx, opts, name, os.Stdout)
	case "diff":
		name, err := presetArg(cmd, args)
		if err != nil {
			return err
		}
		return runDiff(ctx, opts, name, os.Stdout)
	case "activate":
		name, err := presetArg(cmd, args)
		if err != nil {
			return err
		}
		return runActivate(ctx, opts, name, os.Stdout)
	case "start":
		return runServer(ctx, opts, true)
	case "stop":
		return runServer(ctx, opts, false)
	case "status":
		return runStatus(ctx, opts, os.Stdout)
	case "pid":
		return runPid(ctx, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (see --help)", cmd)
	}
}

func presetArg(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s: expected exactly one preset name", cmd)
	}

	return args[0], nil
}
