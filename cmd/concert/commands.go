package concert

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/dConcert/cmd/util"
	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [title] [date]",
		Short: "Creates a concert and prints it with its assigned id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := util.ParseDate(args[1])
			if err != nil {
				return err
			}
			created, err := rpcRepository.Create(concert.New(args[0], date))
			if err != nil {
				return err
			}
			fmt.Println(created)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Reads the concert with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, ok, err := rpcRepository.Get(id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("id=%d, found=false\n", id)
				return nil
			}
			fmt.Println(c)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [id] [title] [date]",
		Short: "Replaces title and date of the concert with the given id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			date, err := util.ParseDate(args[2])
			if err != nil {
				return err
			}
			ok, err := rpcRepository.Update(concert.NewWithID(id, args[1], date))
			if err != nil {
				return err
			}
			fmt.Printf("id=%d, updated=%v\n", id, ok)
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Deletes the concert with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := rpcRepository.Delete(id)
			if err != nil {
				return err
			}
			fmt.Printf("id=%d, deleted=%v\n", id, ok)
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all concerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			concerts, err := rpcRepository.List()
			if err != nil {
				return err
			}
			for _, c := range concerts {
				fmt.Println(c)
			}
			fmt.Printf("%d concert(s)\n", len(concerts))
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all concerts and resets the id counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcRepository.Clear(); err != nil {
				return err
			}
			fmt.Println("cleared successfully")
			return nil
		},
	}
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number: %w", err)
	}
	return id, nil
}
