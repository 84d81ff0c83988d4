// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
zcashd is the mining and block template daemon of a zcash-like node.

It maintains the best chain state, constructs block templates for external
miners through the getblocktemplate RPC with BIP22 long polling and block
proposals, accepts solved blocks through submitblock, and supports on-demand
block generation on the regression test network through the generate RPC.

Usage:

	zcashd [OPTIONS]

Application Options:

	-A, --appdata=          Path to application home directory
	-V, --version           Display version information and exit
	-C, --configfile=       Path to configuration file
	    --logdir=           Directory to log output
	    --nofilelogging     Disable file logging
	-d, --debuglevel=       Logging level for all subsystems {trace, debug,
	                        info, warn, error, critical} -- You may also
	                        specify <subsystem>=<level>,<subsystem2>=<level>,
	                        ... to set the log level for individual
	                        subsystems -- Use show to list available
	                        subsystems
	    --testnet           Use the test network
	    --regnet            Use the regression test network
	    --norpc             Disable built-in RPC server
	    --notls             Disable TLS for the RPC server -- NOTE: This is
	                        only allowed if the RPC server is bound to
	                        localhost
	-u, --rpcuser=          Username for RPC connections
	-P, --rpcpass=          Password for RPC connections
	    --rpclimituser=     Username for limited RPC connections
	    --rpclimitpass=     Password for limited RPC connections
	    --rpclisten=        Add an interface/port to listen for RPC
	                        connections (default port: 8232, testnet: 18232)
	    --rpccert=          File containing the certificate file
	    --rpckey=           File containing the certificate key
	    --rpcmaxclients=    Max number of RPC clients for standard
	                        connections
	    --rpcmaxwebsockets= Max number of RPC websocket connections
	    --altdnsnames=      Specify additional dns names to use when
	                        generating the rpc server certificate
	    --miningaddr=       Add the specified payment address to the list of
	                        addresses to use for generated blocks -- At
	                        least one address is required if the generate
	                        option is specified
	    --generate          Generate (mine) coins using the CPU
	    --genproclimit=     Number of processes to use for mining (-1 = all
	                        cores)

Help Options:

	-h, --help              Show this help message
*/
package main
