package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/telemetry-relay/commonGo"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/config"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/factory"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "simulator"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	defaultTeamID        = 1
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	simulatorHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("simulator")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,engine:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the engine package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the simulator will store its logs.",
		Value: "",
	}
	// configFile defines the simulator configuration file
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "The `filepath` of the simulator toml configuration file.",
		Value: "./config.toml",
	}
	// teamID overrides the team the simulator reports for
	teamID = cli.Int64Flag{
		Name:  "team-id",
		Usage: "The team `ID` the simulator registers and reports for. Overrides the config file value.",
	}
	// motorManufacturer overrides the declared motor manufacturer
	motorManufacturer = cli.StringFlag{
		Name:  "motor-manufacturer",
		Usage: "The motor `manufacturer` declared at registration. Overrides the config file value.",
	}
	// motorDesignation overrides the declared motor designation
	motorDesignation = cli.StringFlag{
		Name:  "motor-designation",
		Usage: "The motor `designation` declared at registration. Overrides the config file value.",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = simulatorHelpTemplate
	app.Name = "Rocket telemetry simulator"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for starting a simulated rocket that streams telemetry to the relay"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
		teamID,
		motorManufacturer,
		motorDesignation,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	saveLogFile := ctx.GlobalBool(logSaveFile.Name)
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	log.Info("Starting telemetry simulator", "version", appVersion, "pid", os.Getpid())

	cfg, err := config.LoadConfig(ctx.GlobalString(configFile.Name))
	if err != nil {
		return err
	}
	applyFlagOverrides(ctx, cfg)

	components, err := factory.NewComponentsHandler(*cfg)
	if err != nil {
		return err
	}

	components.Start()

	log.Info("Telemetry simulator started", "relay", cfg.RelayURL, "team", cfg.TeamID,
		"motor manufacturer", cfg.MotorManufacturer, "motor designation", cfg.MotorDesignation)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	log.Info("Application closing, calling Close on all subcomponents...")
	components.Close()

	return nil
}

func applyFlagOverrides(ctx *cli.Context, cfg *config.Config) {
	if ctx.GlobalIsSet(teamID.Name) {
		cfg.TeamID = ctx.GlobalInt64(teamID.Name)
	}
	if cfg.TeamID <= 0 {
		log.Warn("invalid team ID, using the default one", "provided", cfg.TeamID, "default", defaultTeamID)
		cfg.TeamID = defaultTeamID
	}
	if ctx.GlobalIsSet(motorManufacturer.Name) {
		cfg.MotorManufacturer = ctx.GlobalString(motorManufacturer.Name)
	}
	if ctx.GlobalIsSet(motorDesignation.Name) {
		cfg.MotorDesignation = ctx.GlobalString(motorDesignation.Name)
	}
}
