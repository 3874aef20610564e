package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dConcert/cmd/concert"
	"github.com/ValentinKolb/dConcert/cmd/serve"
	"github.com/ValentinKolb/dConcert/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dconcert",
		Short: "remote concert repository",
		Long: fmt.Sprintf(`dConcert (v%s)

A remote concert repository written in Go. The server hosts one or more
named in-memory repositories, clients create, read, update and delete
concerts over http, tcp or unix sockets.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dConcert",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dConcert v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(concert.ConcertCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
