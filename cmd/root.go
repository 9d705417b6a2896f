/*
   Copyright 2024 Vertree Contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package cmd implements the vertree command line tool.
package cmd

import (
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	v "github.com/spf13/viper"

	"github.com/vertree/vertree/log"
	"github.com/vertree/vertree/metrics"
)

var Root *cobra.Command = &cobra.Command{
	Use:   "vertree",
	Short: "Vertree authenticated tree tool",
	Long: "Vertree maintains an append-only authenticated tree over durable storage. " +
		"This command appends leaves, commits them, and produces and checks membership proofs.",
	// SilenceUsage is set to true -> https://github.com/spf13/cobra/issues/340
	SilenceUsage: true,
}

var cmdCtx cmdContext

func init() {

	metrics.Register(prometheus.DefaultRegisterer)

	f := Root.PersistentFlags()
	f.StringVar(&cmdCtx.dbPath, "db", defaultDbPath(), "Directory of the tree database")
	f.StringVar(&cmdCtx.engine, "storage", "badger", "Storage engine (badger|bolt)")
	f.StringVar(&cmdCtx.hasher, "hasher", "sha256", "Hash algorithm (sha256|blake2b)")
	f.Uint16Var(&cmdCtx.depth, "depth", 24, "Fixed height of the tree")
	f.StringVar(&cmdCtx.logLevel, "log", "error", "Log level: error, info, debug")

	v.SetEnvPrefix("vertree")
	v.AutomaticEnv()
	v.BindPFlag("db", f.Lookup("db"))
	v.BindPFlag("storage", f.Lookup("storage"))
	v.BindPFlag("hasher", f.Lookup("hasher"))
	v.BindPFlag("depth", f.Lookup("depth"))
	v.BindPFlag("log", f.Lookup("log"))

	Root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmdCtx.dbPath = v.GetString("db")
		cmdCtx.engine = v.GetString("storage")
		cmdCtx.hasher = v.GetString("hasher")
		cmdCtx.depth = uint16(v.GetUint32("depth"))
		cmdCtx.logLevel = v.GetString("log")
		log.SetLogger("vertree", cmdCtx.logLevel)
	}
}

func defaultDbPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".vertree"
	}
	return filepath.Join(home, ".vertree", "db")
}
