// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/elliptic"
	"crypto/tls"
	"net"
	"os"
	"sync"
	"time"

	"github.com/decred/dcrd/certgen"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/internal/mempool"
	"github.com/zingolabs/zcash/internal/mining"
	"github.com/zingolabs/zcash/internal/mining/cpuminer"
	"github.com/zingolabs/zcash/internal/rpcserver"
)

// server provides a zcash server for handling communication between the
// subsystems: the chain state, the mempool, the template cache, the CPU
// miner, and the RPC server.
type server struct {
	cfg           *config
	startupTime   int64
	chain         *blockchain.Chain
	txPool        *mempool.TxPool
	addrSource    *configAddressSource
	templateCache *mining.TemplateCache
	cpuMiner      *cpuminer.CPUMiner
	rpcServer     *rpcserver.Server

	wg sync.WaitGroup
}

// configAddressSource hands out the mining addresses from the configuration
// in round-robin order.  Configured addresses remain valid indefinitely, so
// committing to one is a no-op.
type configAddressSource struct {
	mtx   sync.Mutex
	addrs []mining.MinerAddress
	next  int
}

// MinerAddress returns the next configured mining address.
//
// This function is safe for concurrent access and is part of the
// mining.AddressSource interface implementation.
func (s *configAddressSource) MinerAddress() (mining.MinerAddress, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.addrs) == 0 {
		return nil, mining.Error{
			Err:         mining.ErrAddressExhausted,
			Description: "no mining addresses configured",
		}
	}
	addr := s.addrs[s.next]
	s.next = (s.next + 1) % len(s.addrs)
	return addr, nil
}

// KeepMinerAddress commits to the address having been used in an accepted
// block.
//
// This function is safe for concurrent access and is part of the
// mining.AddressSource interface implementation.
func (s *configAddressSource) KeepMinerAddress(addr mining.MinerAddress) {
	srvrLog.Debugf("Block accepted paying mining address %s", addr)
}

// genCertPair generates a key/cert pair to the paths provided.
func genCertPair(certFile, keyFile string, altDNSNames []string) error {
	rpcsLog.Infof("Generating TLS certificates...")

	org := "zcashd autogenerated cert"
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(elliptic.P256(), org,
		validUntil, altDNSNames)
	if err != nil {
		return err
	}

	// Write cert and key files.
	if err = os.WriteFile(certFile, cert, 0644); err != nil {
		return err
	}
	if err = os.WriteFile(keyFile, key, 0600); err != nil {
		os.Remove(certFile)
		return err
	}

	rpcsLog.Infof("Done generating TLS certificates")
	return nil
}

// setupRPCListeners returns a slice of listeners that are configured for use
// with the RPC server depending on the configuration settings for listen
// addresses and TLS.
func setupRPCListeners(cfg *config) ([]net.Listener, error) {
	// Setup TLS if not disabled.
	listenFunc := net.Listen
	if !cfg.DisableTLS {
		// Generate the TLS cert and key file if both don't already exist.
		if !fileExists(cfg.RPCKey) && !fileExists(cfg.RPCCert) {
			err := genCertPair(cfg.RPCCert, cfg.RPCKey, cfg.AltDNSNames)
			if err != nil {
				return nil, err
			}
		}
		keypair, err := tls.LoadX509KeyPair(cfg.RPCCert, cfg.RPCKey)
		if err != nil {
			return nil, err
		}

		tlsConfig := tls.Config{
			Certificates: []tls.Certificate{keypair},
			MinVersion:   tls.VersionTLS12,
		}

		// Change the standard net.Listen function to the tls one.
		listenFunc = func(net string, laddr string) (net.Listener, error) {
			return tls.Listen(net, laddr, &tlsConfig)
		}
	}

	listeners := make([]net.Listener, 0, len(cfg.RPCListeners))
	for _, addr := range cfg.RPCListeners {
		listener, err := listenFunc("tcp", addr)
		if err != nil {
			rpcsLog.Warnf("Can't listen on %s: %v", addr, err)
			continue
		}
		listeners = append(listeners, listener)
	}

	return listeners, nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// newServer returns a new zcash server configured to listen for RPC
// connections on the addresses from the provided configuration.
func newServer(cfg *config) (*server, error) {
	chain, err := blockchain.New(&blockchain.Config{
		ChainParams: cfg.params.Params,
	})
	if err != nil {
		return nil, err
	}

	txPool := mempool.New()
	addrSource := &configAddressSource{addrs: cfg.miningAddrs}
	templateCache := mining.NewTemplateCache(&mining.Config{
		Chain:         chain,
		TxSource:      txPool,
		ChainParams:   cfg.params.Params,
		AddressSource: addrSource,
	})
	cpuMiner := cpuminer.New(&cpuminer.Config{
		ChainParams:    cfg.params.Params,
		Chain:          chain,
		TemplateSource: templateCache,
		AddressSource:  addrSource,
	})

	s := server{
		cfg:           cfg,
		startupTime:   time.Now().Unix(),
		chain:         chain,
		txPool:        txPool,
		addrSource:    addrSource,
		templateCache: templateCache,
		cpuMiner:      cpuMiner,
	}

	if !cfg.DisableRPC {
		listeners, err := setupRPCListeners(cfg)
		if err != nil {
			return nil, err
		}

		s.rpcServer, err = rpcserver.New(&rpcserver.Config{
			Listeners:        listeners,
			StartupTime:      s.startupTime,
			ConnMgr:          &rpcConnManager{server: &s},
			Chain:            chain,
			ChainParams:      cfg.params.Params,
			TxMempooler:      txPool,
			TemplateSource:   templateCache,
			CPUMiner:         cpuMiner,
			AddressSource:    addrSource,
			RPCUser:          cfg.RPCUser,
			RPCPass:          cfg.RPCPass,
			RPCLimitUser:     cfg.RPCLimitUser,
			RPCLimitPass:     cfg.RPCLimitPass,
			RPCMaxClients:    cfg.RPCMaxClients,
			RPCMaxWebsockets: cfg.RPCMaxWebsockets,
			TestNet:          cfg.TestNet,
		})
		if err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// Run starts the server and blocks until the provided context is cancelled.
func (s *server) Run(ctx context.Context) {
	srvrLog.Infof("Server starting on network %s", s.cfg.params.Name)

	if s.rpcServer != nil {
		s.wg.Add(2)
		go func() {
			defer s.wg.Done()
			s.rpcServer.Run(ctx)
		}()

		// Signal process shutdown when the RPC server requests it.
		go func() {
			defer s.wg.Done()
			select {
			case <-s.rpcServer.RequestedProcessShutdown():
				shutdownRequestChannel <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	// Start continuous CPU mining when requested.  On-demand networks mine
	// through the generate RPC instead.
	if s.cfg.Generate && !s.cfg.params.MineBlocksOnDemand {
		s.cpuMiner.SetGenerate(true, s.cfg.GenProcLimit)
	}

	<-ctx.Done()
	srvrLog.Info("Server shutting down")
	s.cpuMiner.Stop()
	s.wg.Wait()
}
