package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/sqlite"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data file if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeRepo, err := a.openRepository()
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := repo.Initialize(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.cfg.DataPath())
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print clients and their projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeRepo, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			clients := svc.Clients()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string][]client.Client{"clients": clients})
			}
			return printClients(cmd, clients)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the client list as JSON")
	return cmd
}

func printClients(cmd *cobra.Command, clients []client.Client) error {
	out := cmd.OutOrStdout()
	if len(clients) == 0 {
		fmt.Fprintln(out, "no clients")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPROJECT\tSTATUS\tDELIVERY")
	for _, c := range clients {
		if len(c.Projects) == 0 {
			fmt.Fprintf(tw, "%d\t%s\t-\t-\t-\n", c.ID, c.Name)
			continue
		}
		for i, p := range c.Projects {
			id, name := fmt.Sprint(c.ID), c.Name
			if i > 0 {
				id, name = "", ""
			}
			delivery := p.DeliveryDate
			if delivery == "" {
				delivery = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, name, p.Title, p.Status, delivery)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	clientCount, projectCount := client.Totals(clients)
	fmt.Fprintf(out, "\n%s, %s\n", plural(clientCount, "client"), plural(projectCount, "project"))
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func newPathCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the data is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend: %s\n", a.cfg.Data.Backend)
			fmt.Fprintf(out, "path:    %s\n", a.cfg.DataPath())
			if _, err := os.Stat(a.cfg.DataPath()); err != nil {
				fmt.Fprintln(out, "status:  not initialized")
				return nil
			}

			repo, closeRepo, err := a.openRepository()
			if err != nil {
				return err
			}
			defer closeRepo()

			doc, ok := repo.(*sqlite.DocumentRepository)
			if !ok {
				return nil
			}
			updated, err := doc.UpdatedAt(cmd.Context())
			if errors.Is(err, client.ErrNotFound) {
				fmt.Fprintln(out, "status:  not initialized")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "updated: %s\n", updated.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clientmanager version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "clientmanager %s\n", a.version)
			return nil
		},
	}
}
