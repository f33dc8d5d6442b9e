package main

import (
	"bufio"
	"fmt"
	"strings"

	"blocklists/pkg/domain"

	"github.com/spf13/cobra"
)

func normalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [token...]",
		Short: "Prints the normalized form of each token, reading stdin when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			emit := func(raw string) {
				if d, ok := domain.Normalize(raw); ok {
					_, _ = fmt.Fprintln(out, d)
				}
			}

			if len(args) > 0 {
				for _, a := range args {
					emit(a)
				}

				return out.Flush()
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				emit(strings.TrimSpace(sc.Text()))
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("could not read input: %w", err)
			}

			return out.Flush()
		},
	}

	return cmd
}
