package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/transmission-tui/internal/app"
	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/format/table"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the daemon answers and print the torrent count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cli := app.NewBackend(cfg.App)
			if err := app.CheckDaemon(ctx, cfg.App, cli); err != nil {
				return err
			}
			torrents, err := backend.Traced(cli).List(ctx)
			if err != nil {
				return err
			}
			host := cli.Host()
			if host == "" {
				host = "local daemon"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d torrents\n", host, len(torrents))
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	var magnets bool
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the public indexes once and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			term := strings.Join(args, " ")
			hits, err := app.NewSearcher(cfg.App).Search(ctx, term)
			var perr *search.ProviderError
			if err != nil && !(errors.As(err, &perr) && len(hits) > 0) {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range resultLines(hits, magnets) {
				fmt.Fprintln(out, line)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "some sources failed: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&magnets, "magnet", false, "print the magnet link of every result")
	return cmd
}

func resultLines(hits []search.Candidate, magnets bool) []string {
	if len(hits) == 0 {
		return []string{"no results"}
	}
	header := []string{"Name", "Seeders", "Leechers", "Size", "Source"}
	align := []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignLeft}
	if magnets {
		header = append(header, "Magnet")
		align = append(align, table.AlignLeft)
	}
	rows := [][]string{header}
	for _, h := range hits {
		row := []string{
			h.Name,
			strconv.FormatInt(h.Seeders, 10),
			strconv.FormatInt(h.Leechers, 10),
			humanize.Bytes(uint64(max(h.Size, 0))),
			h.Source.String(),
		}
		if magnets {
			row = append(row, h.Magnet())
		}
		rows = append(rows, row)
	}
	return table.Format(rows, align)
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the effective key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			for _, line := range keyLines(cfg.App.Keys) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func keyLines(m keymap.Map) []string {
	rows := [][]string{{"Action", "Key", "Description"}}
	for _, a := range keymap.Actions() {
		rows = append(rows, []string{a.String(), m.Label(a), a.Description()})
	}
	return table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft})
}
