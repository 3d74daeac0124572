package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/charlesng35/geocurator/internal/pmid"
	"github.com/charlesng35/geocurator/internal/workspace"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pmids",
		Short:         "Build and inspect PubMed ID working sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newEncodeCommand())
	rootCmd.AddCommand(newShowCommand())
	return rootCmd
}

func newParseCommand() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse a batch of ids and print one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := pmid.Parse(args[0], delimiter)
			if err != nil {
				return errors.New(workspace.UserMessage(err))
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintln(out, strconv.FormatInt(id, 10))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", pmid.TextDelimiter, "Separator between ids")
	return cmd
}

func newEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file>...",
		Short: "Merge id files into one working set and print the form value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadFiles(args)
			if err != nil {
				return err
			}
			encoded, err := pmid.Encode(set)
			if err != nil {
				return submitError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>...",
		Short: "Print the merged working set as a table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadFiles(args)
			if err != nil {
				return err
			}
			if set.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No PubMed IDs")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWorkingSet(set))
			return nil
		},
	}
}

// loadFiles adds each file's batch in order, as repeated imports on the page would.
func loadFiles(paths []string) (pmid.WorkingSet, error) {
	var set pmid.WorkingSet
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return set, fmt.Errorf("read %s: %w", path, err)
		}
		ids, err := pmid.Parse(string(data), pmid.FileDelimiter)
		if err != nil {
			return set, fmt.Errorf("%s: %s", path, workspace.UserMessage(err))
		}
		set, _ = set.AddBatch(ids)
	}
	return set, nil
}

// submitError words an empty set the way the page does at submit time.
func submitError(err error) error {
	if errors.Is(err, pmid.ErrEmptyInput) {
		return errors.New(workspace.SubmitEmptyFull)
	}
	return errors.New(workspace.UserMessage(err))
}
