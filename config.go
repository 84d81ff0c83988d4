// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/dcrd/dcrutil/v4"
	flags "github.com/jessevdk/go-flags"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/mining"
)

const (
	defaultConfigFilename   = "zcashd.conf"
	defaultLogLevel         = "info"
	defaultLogDirname       = "logs"
	defaultLogFilename      = "zcashd.log"
	defaultMaxRPCClients    = 10
	defaultMaxRPCWebsockets = 25
	defaultGenProcLimit     = -1
)

var (
	defaultHomeDir     = dcrutil.AppDataDir("zcashd", false)
	defaultConfigFile  = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir      = filepath.Join(defaultHomeDir, defaultLogDirname)
	defaultRPCKeyFile  = filepath.Join(defaultHomeDir, "rpc.key")
	defaultRPCCertFile = filepath.Join(defaultHomeDir, "rpc.cert")
)

// config defines the configuration options for zcashd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	HomeDir          string   `short:"A" long:"appdata" description:"Path to application home directory"`
	ShowVersion      bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile       string   `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir           string   `long:"logdir" description:"Directory to log output"`
	NoFileLogging    bool     `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel       string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	TestNet          bool     `long:"testnet" description:"Use the test network"`
	RegNet           bool     `long:"regnet" description:"Use the regression test network"`
	DisableRPC       bool     `long:"norpc" description:"Disable built-in RPC server"`
	DisableTLS       bool     `long:"notls" description:"Disable TLS for the RPC server -- NOTE: This is only allowed if the RPC server is bound to localhost"`
	RPCUser          string   `short:"u" long:"rpcuser" description:"Username for RPC connections"`
	RPCPass          string   `short:"P" long:"rpcpass" default-mask:"-" description:"Password for RPC connections"`
	RPCLimitUser     string   `long:"rpclimituser" description:"Username for limited RPC connections"`
	RPCLimitPass     string   `long:"rpclimitpass" default-mask:"-" description:"Password for limited RPC connections"`
	RPCListeners     []string `long:"rpclisten" description:"Add an interface/port to listen for RPC connections (default port: 8232, testnet: 18232)"`
	RPCCert          string   `long:"rpccert" description:"File containing the certificate file"`
	RPCKey           string   `long:"rpckey" description:"File containing the certificate key"`
	RPCMaxClients    int      `long:"rpcmaxclients" description:"Max number of RPC clients for standard connections"`
	RPCMaxWebsockets int      `long:"rpcmaxwebsockets" description:"Max number of RPC websocket connections"`
	AltDNSNames      []string `long:"altdnsnames" description:"Specify additional dns names to use when generating the rpc server certificate" env:"ZCASHD_ALT_DNSNAMES" env-delim:","`
	MiningAddrs      []string `long:"miningaddr" description:"Add the specified payment address to the list of addresses to use for generated blocks -- At least one address is required if the generate option is specified"`
	Generate         bool     `long:"generate" description:"Generate (mine) coins using the CPU"`
	GenProcLimit     int      `long:"genproclimit" description:"Number of processes to use for mining (-1 = all cores)"`

	// The following options are derived during load.
	params      netParams
	miningAddrs []mining.MinerAddress
}

// errSuppressUsage signifies that an error that happened during the initial
// configuration phase should suppress the usage output since it was not
// caused by an improper config option.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// normalizeAddress returns addr with the passed default port appended if
// there is not already a port specified.
func normalizeAddress(addr, defaultPort string) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, defaultPort)
	}
	return addr
}

// normalizeAddresses returns a new slice with all the passed addresses
// normalized with the given default port and all duplicates removed.
func normalizeAddresses(addrs []string, defaultPort string) []string {
	result := make([]string, 0, len(addrs))
	seen := map[string]struct{}{}
	for _, addr := range addrs {
		addr = normalizeAddress(addr, defaultPort)
		if _, ok := seen[addr]; !ok {
			result = append(result, addr)
			seen[addr] = struct{}{}
		}
	}
	return result
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// parseMiningAddrs decodes the configured mining addresses for the given
// network.  Shielded addresses are rejected since building a shielded
// coinbase requires the shielded pool collaborator, which this daemon does
// not run.
func parseMiningAddrs(params *chaincfg.Params, encodedAddrs []string) ([]mining.MinerAddress, error) {
	addrs := make([]mining.MinerAddress, 0, len(encodedAddrs))
	for _, strAddr := range encodedAddrs {
		addr, err := mining.DecodeMinerAddress(params, strAddr)
		if err != nil {
			return nil, fmt.Errorf("mining address '%s' failed to "+
				"decode: %w", strAddr, err)
		}
		if mining.IsShielded(addr) {
			return nil, fmt.Errorf("mining address '%s' pays the "+
				"shielded pool, which requires a shielded pool "+
				"collaborator -- use a transparent address", strAddr)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfg *config, options flags.Options) *flags.Parser {
	return flags.NewParser(cfg, options)
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in zcashd functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.
func loadConfig(appName string) (*config, []string, error) {
	// Default config.
	cfg := config{
		HomeDir:          defaultHomeDir,
		ConfigFile:       defaultConfigFile,
		LogDir:           defaultLogDir,
		DebugLevel:       defaultLogLevel,
		RPCCert:          defaultRPCCertFile,
		RPCKey:           defaultRPCKeyFile,
		RPCMaxClients:    defaultMaxRPCClients,
		RPCMaxWebsockets: defaultMaxRPCWebsockets,
		GenProcLimit:     defaultGenProcLimit,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	// Update the home directory if specified.  Since the home directory is
	// updated, other variables need to be updated to reflect the new
	// changes.
	if preCfg.HomeDir != "" {
		cfg.HomeDir = cleanAndExpandPath(preCfg.HomeDir)

		if preCfg.ConfigFile == defaultConfigFile {
			cfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		} else {
			cfg.ConfigFile = preCfg.ConfigFile
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
		if preCfg.RPCKey == defaultRPCKeyFile {
			cfg.RPCKey = filepath.Join(cfg.HomeDir, "rpc.key")
		}
		if preCfg.RPCCert == defaultRPCCertFile {
			cfg.RPCCert = filepath.Join(cfg.HomeDir, "rpc.cert")
		}
	}

	// Load additional config from file.
	var configFileError error
	parser := newConfigParser(&cfg, flags.Default)
	if _, err := os.Stat(cfg.ConfigFile); err == nil ||
		preCfg.ConfigFile != defaultConfigFile {

		err := flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
		if err != nil {
			var e *os.PathError
			if !errors.As(err, &e) {
				return nil, nil, fmt.Errorf("error parsing config file: "+
					"%w", err)
			}
			configFileError = err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, nil, err
	}

	// Create the home directory if it doesn't already exist.
	funcName := "loadConfig"
	err = os.MkdirAll(cfg.HomeDir, 0700)
	if err != nil {
		// Show a nicer error message if it's because a symlink is linked
		// to a directory that does not exist (probably because it's not
		// mounted).
		var e *os.PathError
		if errors.As(err, &e) && os.IsExist(err) {
			if link, lerr := os.Readlink(e.Path); lerr == nil {
				err = fmt.Errorf("is symlink %s -> %s mounted?", e.Path,
					link)
			}
		}
		return nil, nil, errSuppressUsage(fmt.Sprintf("%s: failed to "+
			"create home directory: %v", funcName, err))
	}

	// Multiple networks can't be selected simultaneously.
	cfg.params = mainNetParams
	numNets := 0
	if cfg.TestNet {
		numNets++
		cfg.params = testNetParams
	}
	if cfg.RegNet {
		numNets++
		cfg.params = regNetParams
	}
	if numNets > 1 {
		return nil, nil, fmt.Errorf("%s: the testnet and regnet params "+
			"can't be used together -- choose one of the two", funcName)
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.params.Name)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After the log rotation has been
	// initialized, the logger variables may be used.
	if !cfg.NoFileLogging {
		initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", funcName, err)
	}

	// The RPC server is disabled when no credentials for either the full
	// or the limited user are provided.
	if cfg.RPCUser == "" || cfg.RPCPass == "" {
		if cfg.RPCLimitUser == "" || cfg.RPCLimitPass == "" {
			cfg.DisableRPC = true
		}
	}
	if cfg.DisableRPC {
		zcsdLog.Infof("RPC service is disabled")
	}

	// The RPC server is disabled if both the admin and the limited user
	// share a username.
	if cfg.RPCUser != "" && cfg.RPCUser == cfg.RPCLimitUser {
		return nil, nil, fmt.Errorf("%s: --rpcuser and --rpclimituser "+
			"must not specify the same username", funcName)
	}

	// Default RPC to listen on localhost only.
	if !cfg.DisableRPC && len(cfg.RPCListeners) == 0 {
		addrs, err := net.LookupHost("localhost")
		if err != nil {
			return nil, nil, err
		}
		cfg.RPCListeners = make([]string, 0, len(addrs))
		for _, addr := range addrs {
			addr = net.JoinHostPort(addr, cfg.params.rpcPort)
			cfg.RPCListeners = append(cfg.RPCListeners, addr)
		}
	}

	// Add the default port to all rpc listener addresses if needed and
	// remove duplicate addresses.
	cfg.RPCListeners = normalizeAddresses(cfg.RPCListeners,
		cfg.params.rpcPort)

	// Only allow TLS to be disabled when the RPC server is bound to
	// localhost addresses.
	if !cfg.DisableRPC && cfg.DisableTLS {
		allowedTLSListeners := map[string]struct{}{
			"localhost": {},
			"127.0.0.1": {},
			"::1":       {},
		}
		for _, addr := range cfg.RPCListeners {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: RPC listen interface "+
					"'%s' is invalid: %w", funcName, addr, err)
			}
			if _, ok := allowedTLSListeners[host]; !ok {
				return nil, nil, fmt.Errorf("%s: the --notls option may "+
					"not be used when binding RPC to non localhost "+
					"addresses: %s", funcName, addr)
			}
		}
	}

	// Check mining addresses are valid for the active network and save the
	// parsed versions.
	cfg.miningAddrs, err = parseMiningAddrs(cfg.params.Params, cfg.MiningAddrs)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", funcName, err)
	}

	// Ensure there is at least one mining address when the generate flag
	// is set.
	if cfg.Generate && len(cfg.miningAddrs) == 0 {
		return nil, nil, fmt.Errorf("%s: the generate flag is set, but "+
			"there are no mining addresses specified", funcName)
	}

	// Warn about a missing config file only after all other configuration
	// is done.  This prevents the warning on help messages and invalid
	// options.  Note this should go directly before the return.
	if configFileError != nil {
		zcsdLog.Warnf("%v", configFileError)
	}

	return &cfg, remainingArgs, nil
}
