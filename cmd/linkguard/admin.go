package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/logger"
	"github.com/vertextoedge/linkguard/internal/service/classifier"
	"github.com/vertextoedge/linkguard/internal/service/navigation"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <domain-id> <url>",
		Short: "Show the decision for a URL without acting on it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid domain id %q: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			// Classification has no side effects, so the guard runs without actions
			guard := navigation.New(store, nil, classifier.New(&classifier.Policy{
				UploadsPath:     cfg.Links.UploadsPath,
				ImageExtensions: cfg.Links.ImageExtensions,
			}), nil, nil, nil, logger.GetZapLogger())

			c := guard.Classify(domain.NavigationRequest{URL: args[1], DomainIndex: index})
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trusted:  %t\n", c.IsTrusted)
			fmt.Fprintf(out, "download: %t\n", c.IsDownloadCandidate)
			fmt.Fprintf(out, "decision: %s\n", c.Decision())
			return nil
		},
	}
}

func newDomainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage trusted chat domains",
	}

	var alias string
	addCmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Register a chat domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.NewChatDomain(alias, args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.CreateDomain(d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added domain %d: %s\n", d.ID, d.URL)
			return nil
		},
	}
	addCmd.Flags().StringVar(&alias, "alias", "", "display name for the domain")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List chat domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			domains, err := store.ListDomains()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tALIAS\tURL\tADDED")
			for _, d := range domains {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.ID, d.Alias, d.URL, d.CreatedAt.Format(time.DateTime))
			}
			return w.Flush()
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a chat domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid domain id %q: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteDomain(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed domain %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, removeCmd)
	return cmd
}

func newDownloadsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "Show recent intercepted downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListDownloads(limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REQUESTED\tSTATUS\tFILE\tURL")
			for _, r := range records {
				file := r.FilePath
				if file == "" {
					file = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.RequestedAt.Format(time.DateTime), r.Status, file, r.URL)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of records to show")
	return cmd
}
