package concert

import (
	"github.com/ValentinKolb/dConcert/cmd/util"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/rpc/client"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rpcRepository repository.IConcertRepository

	// ConcertCommands represents the concert command group
	ConcertCommands = &cobra.Command{
		Use:               "concert",
		Short:             "Perform operations on a concert repository",
		PersistentPreRunE: setupConcertClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the concert command
	util.SetupRPCClientFlags(ConcertCommands)

	ConcertCommands.PersistentFlags().String("log-level", "error", util.WrapString("LogLevel is the level at which logs of the client will be output (debug, info, warn, error)"))

	// Add subcommands
	ConcertCommands.AddCommand(createCmd)
	ConcertCommands.AddCommand(getCmd)
	ConcertCommands.AddCommand(updateCmd)
	ConcertCommands.AddCommand(deleteCmd)
	ConcertCommands.AddCommand(listCmd)
	ConcertCommands.AddCommand(clearCmd)
	ConcertCommands.AddCommand(perfTestCmd)
}

// setupConcertClient initializes the RPC repository client
func setupConcertClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	serviceName := util.GetServiceName()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the repository client
	rpcRepository, err = client.NewRPCConcertRepository(
		serviceName,
		*config,
		t,
		s,
	)

	return err
}
