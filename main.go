package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"Entropass/config"
	"Entropass/constants"
	"Entropass/logger"
	"Entropass/runtime"
	"Entropass/utils"
)

var localLog *log.Logger

type cliFlags struct {
	debug      *bool
	asciiLen   *int
	alnumLen   *int
	hexLen     *int
	cadence    *time.Duration
	count      *int
	charset    *string
	length     *int
	complexity *bool
}

func main() {
	localLog = logger.NewLogger(os.Stdout).Logger

	cfg, err := config.Load()
	if err != nil {
		logger.LogError(localLog, constants.LogError, err, "Configuration error")
		os.Exit(1)
	}

	flags := setupFlags(cfg)
	cfg = applyFlags(cfg, flags)

	if cfg.Debug {
		constants.DebugMode = true
		logger.LogStatus(localLog, constants.LogDebug, "Debug mode enabled")
	}

	fmt.Print("\033[H\033[2J\n")
	logger.Banner()

	ctx, err := initialize(cfg, *flags.count)
	if err != nil {
		logger.LogError(localLog, constants.LogError, err, "Initialization error")
		os.Exit(1)
	}

	// One-shot custom derivation
	if *flags.charset != "" {
		if err := deriveOnce(ctx, *flags.charset, *flags.length, *flags.complexity); err != nil {
			logger.LogError(localLog, constants.LogError, err, "Derivation failed")
			os.Exit(1)
		}
		os.Exit(0)
	}

	runtime.SetupGracefulShutdown(ctx)
	runtime.StartMixer(ctx)

	ctx.Wg.Add(1)
	go func() {
		defer ctx.Wg.Done()
		runtime.RunConsumer(ctx)
	}()

	<-ctx.ShutdownChan
	ctx.Close()
	logger.LogStatus(localLog, constants.LogWarn, "System Shutdown Complete.")
}

func setupFlags(cfg config.Config) cliFlags {
	f := cliFlags{
		debug:      flag.Bool("debug", cfg.Debug, "Enable debug mode"),
		asciiLen:   flag.Int("ascii-len", cfg.ASCIILength, "Length of the ASCII password"),
		alnumLen:   flag.Int("alnum-len", cfg.AlnumLength, "Length of the alphanumeric password"),
		hexLen:     flag.Int("hex-len", cfg.HexLength, "Length of the hex password"),
		cadence:    flag.Duration("cadence", cfg.Cadence, "Mixer tick interval"),
		count:      flag.Int("count", 0, "Print N records then exit (0 = until signal)"),
		charset:    flag.String("charset", "", "Derive one password from this charset and exit"),
		length:     flag.Int("length", constants.ASCIILength, "Length for --charset"),
		complexity: flag.Bool("complex", false, "Enforce all character classes for --charset"),
	}

	flag.Usage = func() {
		logger.PrintSeparator(constants.LogStart)
		localLog.Printf("%s %s Entropass Commands:",
			constants.LogStart,
			constants.EmojiKey)
		localLog.Printf("%s --debug     : Enable Debug Mode", constants.LogStart)
		localLog.Printf("%s --ascii-len : ASCII password length (%d)", constants.LogStart, cfg.ASCIILength)
		localLog.Printf("%s --alnum-len : Alphanumeric password length (%d)", constants.LogStart, cfg.AlnumLength)
		localLog.Printf("%s --hex-len   : Hex password length (%d)", constants.LogStart, cfg.HexLength)
		localLog.Printf("%s --cadence   : Mixer tick interval (%s)", constants.LogStart, utils.FormatCadence(cfg.Cadence))
		localLog.Printf("%s --count     : Print N records then exit", constants.LogStart)
		localLog.Printf("%s --charset   : One-shot password from a charset", constants.LogStart)
		localLog.Printf("%s --length    : Length for --charset", constants.LogStart)
		localLog.Printf("%s --complex   : Enforce classes for --charset", constants.LogStart)
		localLog.Printf("%s SIGUSR1     : Toggle freeze", constants.LogStart)
		logger.PrintSeparator(constants.LogStart)
	}

	flag.Parse()
	return f
}

// applyFlags layers explicitly passed flags over the environment.
func applyFlags(cfg config.Config, f cliFlags) config.Config {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			cfg.Debug = *f.debug
		case "ascii-len":
			cfg.ASCIILength = *f.asciiLen
		case "alnum-len":
			cfg.AlnumLength = *f.alnumLen
		case "hex-len":
			cfg.HexLength = *f.hexLen
		case "cadence":
			cfg.Cadence = *f.cadence
		}
	})
	return cfg
}

func deriveOnce(ctx *runtime.AppContext, charset string, length int, complexity bool) error {
	password, err := ctx.Mixer.Deriver().Derive(charset, length, complexity)
	if err != nil {
		return err
	}

	logger.LogHeaderStatus(localLog, constants.LogPass,
		"%d characters from a %d symbol charset", length, len(charset))
	// printed raw so long passwords are never wrapped
	localLog.Printf("%s%s", constants.LogPass, password)
	logger.PrintSeparator(constants.LogPass)
	return nil
}
