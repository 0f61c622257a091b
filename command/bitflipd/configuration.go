// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/chain"
	"github.com/bitflip-art/bitflipd/configuration"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultBitflipDatabase  = chain.Bitflip + ".leveldb"
	defaultTestingDatabase  = chain.Testing + ".leveldb"
	defaultLocalDatabase    = chain.Local + ".leveldb"

	defaultInboxDirectory  = "inbox"
	defaultOutboxDirectory = "outbox"

	defaultSubmissionsPerSecond = 50

	defaultLogDirectory = "log"
	defaultLogFile      = "bitflipd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// FaucetType - an account topped up at start on test chains
type FaucetType struct {
	Account  string `gluamapper:"account" json:"account"`
	Lamports uint64 `gluamapper:"lamports" json:"lamports"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory        string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile              string               `gluamapper:"pidfile" json:"pidfile"`
	Chain                string               `gluamapper:"chain" json:"chain"`
	Database             DatabaseType         `gluamapper:"database" json:"database"`
	Inbox                string               `gluamapper:"inbox" json:"inbox"`
	Outbox               string               `gluamapper:"outbox" json:"outbox"`
	BootstrapAdmin       string               `gluamapper:"bootstrap_admin" json:"bootstrap_admin"`
	SubmissionsPerSecond float64              `gluamapper:"submissions_per_second" json:"submissions_per_second"`
	Faucet               []FaucetType         `gluamapper:"faucet" json:"faucet"`
	Logging              logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}
	if !util.EnsureFileExists(configurationFileName) {
		return nil, fault.ErrNotFoundConfigFile
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory:        defaultDataDirectory,
		PidFile:              "", // no PidFile by default
		Chain:                chain.Bitflip,
		Inbox:                defaultInboxDirectory,
		Outbox:               defaultOutboxDirectory,
		SubmissionsPerSecond: defaultSubmissionsPerSecond,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultBitflipDatabase,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	variables := map[string]string{
		"config_directory": dataDirectory,
	}
	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// abort if the chain name is not recognised
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fault.ErrInvalidChain
	}

	// if database was not changed from default
	if options.Database.Name == defaultBitflipDatabase {
		switch options.Chain {
		case chain.Bitflip:
			// already correct default
		case chain.Testing:
			options.Database.Name = defaultTestingDatabase
		case chain.Local:
			options.Database.Name = defaultLocalDatabase
		}
	}

	if "" == options.BootstrapAdmin {
		return nil, fault.ErrMissingBootstrap
	}
	if _, err := address.FromBase58(options.BootstrapAdmin); nil != err {
		return nil, fmt.Errorf("bootstrap_admin: %q error: %s", options.BootstrapAdmin, err)
	}
	if options.SubmissionsPerSecond <= 0 {
		return nil, fault.ErrInvalidRate
	}
	for _, f := range options.Faucet {
		if _, err := address.FromBase58(f.Account); nil != err {
			return nil, fmt.Errorf("faucet: %q error: %s", f.Account, err)
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fault.ErrInvalidDirectory
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// the database name must be a plain name inside its directory
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
	default:
		return nil, fmt.Errorf("files: %q is not plain name", options.Database.Name)
	}
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("files: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Inbox,
		&options.Outbox,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := util.EnsureDirectory(*d); nil != err {
			return nil, err
		}
	}
	options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)

	// done
	return options, nil
}

// program identity and bootstrap credential from a checked configuration
func identities(c *Configuration) (address.Address, address.Address, error) {
	program := address.Address(chain.ProgramIdentifier(c.Chain))
	bootstrap, err := address.FromBase58(c.BootstrapAdmin)
	return program, bootstrap, err
}
