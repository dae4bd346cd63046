// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"
)

const (
	appName            = "spvverify"
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "spvverify.log"
)

var (
	defaultHomeDir = btcutil.AppDataDir(appName, false)
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the configuration options for spvverify.
//
// See loadConfig for details on the configuration load process.
type config struct {
	// General application behavior.
	ShowVersion   bool   `short:"V" long:"version" description:"Display version information and exit"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir        string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`

	// Actions.
	ProofFile   string `long:"proof" description:"Path to a JSON encoded SPV proof to validate ('-' for stdin)"`
	BlockFile   string `long:"block" description:"Path to a hex encoded serialized block to create an SPV proof from"`
	TxIndex     uint32 `long:"txindex" description:"Index of the transaction in --block to create the proof for"`
	Headers     string `long:"headers" description:"Hex encoded chain of 80-byte headers to validate"`
	MerkleProof string `long:"merkleproof" description:"Hex encoded flat merkle proof (leaf, siblings, root) to verify"`
	Index       uint64 `long:"index" description:"Leaf index of --merkleproof"`
	Retarget    string `long:"retarget" description:"Hex encoded first and last headers of an epoch followed by the first header of the next epoch"`
}

// numActions returns the number of actions the configuration requests.
func (cfg *config) numActions() int {
	var n int
	for _, opt := range []string{cfg.ProofFile, cfg.BlockFile, cfg.Headers,
		cfg.MerkleProof, cfg.Retarget} {

		if opt != "" {
			n++
		}
	}
	return n
}

// cleanAndExpandPath expands environment variables and leading ~ in the passed
// path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := slog.LevelFromString(logLevel)
	return ok
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		setLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// errShowSubsystems is returned by loadConfig when the debug level requests
// the list of subsystems.
var errShowSubsystems = errors.New("show subsystems")

// loadConfig initializes and parses the config using command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Parse the provided command line options and overwrite/add any
//     specified options
//
// The above results in spvverify functioning properly without any config
// settings while still allowing the user to override settings with the
// command line.
func loadConfig(args []string) (*config, []string, error) {
	cfg := config{
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		return &cfg, remainingArgs, nil
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		return nil, nil, errShowSubsystems
	}

	if len(remainingArgs) > 0 {
		str := "%s: unexpected arguments %v"
		return nil, nil, fmt.Errorf(str, appName, remainingArgs)
	}
	if cfg.numActions() != 1 {
		str := "%s: exactly one of --proof, --block, --headers, " +
			"--merkleproof, or --retarget must be specified"
		return nil, nil, fmt.Errorf(str, appName)
	}

	// Initialize log rotation.  After log rotation has been initialized, the
	// logger variables may be used.
	if !cfg.NoFileLogging {
		cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return nil, nil, err
		}
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", appName, err)
	}

	return &cfg, remainingArgs, nil
}
