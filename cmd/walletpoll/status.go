package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	fsAdapter "github.com/bft-labs/walletpoll/internal/adapters/fs"
	"github.com/bft-labs/walletpoll/internal/domain"
)

func newStatusCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the wallet status last written by a running walletpoll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("%w: --status-file is required", domain.ErrInvalidConfig)
			}
			snap, err := fsAdapter.LoadSnapshot(path)
			if err != nil {
				return fmt.Errorf("read status file: %w", err)
			}
			if snap.Wallet == "" {
				return fmt.Errorf("no status written to %s yet", path)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "status-file", "", "status file written by walletpoll --status-file")
	return cmd
}

func printSnapshot(w io.Writer, snap fsAdapter.Snapshot) {
	fmt.Fprintf(w, "wallet:     %s\n", snap.Wallet)
	fmt.Fprintf(w, "node:       %s\n", snap.Node)
	fmt.Fprintf(w, "state:      %s\n", snap.State)
	fmt.Fprintf(w, "iteration:  %d\n", snap.Iteration)
	fmt.Fprintf(w, "updated:    %s\n", snap.UpdatedAt.Format("2006-01-02 15:04:05 MST"))

	if s := snap.Status; s != nil {
		fmt.Fprintf(w, "height:     %d\n", s.Height)
		fmt.Fprintf(w, "available:  %s\n", domain.FormatAmount(s.Available))
		fmt.Fprintf(w, "receiving:  %s\n", domain.FormatAmount(s.Receiving))
		fmt.Fprintf(w, "sending:    %s\n", domain.FormatAmount(s.Sending))
		fmt.Fprintf(w, "maturing:   %s\n", domain.FormatAmount(s.Maturing))
	}

	if len(snap.Utxos) > 0 {
		statuses := make([]string, 0, len(snap.Utxos))
		for st := range snap.Utxos {
			statuses = append(statuses, st)
		}
		sort.Strings(statuses)
		fmt.Fprintln(w, "utxos:")
		for _, st := range statuses {
			fmt.Fprintf(w, "  %-12s %d\n", st, snap.Utxos[st])
		}
	}

	if snap.LastError != "" {
		fmt.Fprintf(w, "last error: %s\n", snap.LastError)
	}
}
