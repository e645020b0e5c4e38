package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/floj/fronius-probe/fronius"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := &cli.App{
		Name:  "fronius-probe",
		Usage: "Read and decode Fronius inverter and smart meter MODBUS registers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "The Fronius MODBUS-TCP host, e.g. 192.168.10.19",
				EnvVars: []string{"FRONIUS_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "The Fronius MODBUS-TCP port",
				EnvVars: []string{"FRONIUS_PORT"},
				Value:   502,
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Connect and read timeout",
				EnvVars: []string{"FRONIUS_TIMEOUT"},
				Value:   fronius.DefaultTimeout,
			},
			&cli.StringFlag{
				Name:    "driver",
				Usage:   "MODBUS library, one of things-go, goburrow",
				EnvVars: []string{"FRONIUS_DRIVER"},
				Value:   string(fronius.DriverThingsGo),
			},
			&cli.StringFlag{
				Name:    "registers",
				Usage:   "YAML register list, the built-in overview is used if empty",
				EnvVars: []string{"FRONIUS_REGISTERS"},
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "Print the register list and exit without connecting",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Display more information",
				EnvVars: []string{"VERBOSE"},
				Aliases: []string{"v"},
				Value:   false,
			},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx *cli.Context) error {
	verbose := ctx.Bool("verbose")
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	regs, err := fronius.LoadRegisters(ctx.String("registers"))
	if err != nil {
		return err
	}

	if ctx.Bool("list") {
		enc := yaml.NewEncoder(ctx.App.Writer)
		if err := enc.Encode(map[string][]fronius.Register{"registers": regs}); err != nil {
			return err
		}
		return enc.Close()
	}

	host := ctx.String("host")
	if host == "" {
		return fmt.Errorf("required flag \"host\" not set")
	}
	port := ctx.Int("port")
	if port < 1 || port > 0xFFFF {
		return fmt.Errorf("invalid port %d", port)
	}

	fc, err := fronius.NewClient(fronius.Config{
		Addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		Timeout: ctx.Duration("timeout"),
		Driver:  fronius.Driver(ctx.String("driver")),
		Verbose: verbose,
	})
	if err != nil {
		return err
	}
	defer fc.Close()

	logrus.Infof("connected to %s", fc.Identify(fronius.DefaultUnit))

	return fronius.WriteResults(ctx.App.Writer, fc.ReadAll(regs))
}
