package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"periodcheck/internal/files"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Rename and reorganize period folders",
}

var renameFoldersCmd = &cobra.Command{
	Use:   "rename-folders <root>",
	Short: "Rename sub folders to <period>_<n>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayout(cmd, (*files.Layout).RenameFolders, args[0])
	},
}

var renameFilesCmd = &cobra.Command{
	Use:   "rename-files <root>",
	Short: "Prefix files in <period>_<n> folders with the folder period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayout(cmd, (*files.Layout).RenameFiles, args[0])
	},
}

var reorganizeCmd = &cobra.Command{
	Use:   "reorganize <root>",
	Short: "Move files from <period>_<index> folders into <root>/<index>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayout(cmd, (*files.Layout).Reorganize, args[0])
	},
}

func init() {
	layoutCmd.AddCommand(renameFoldersCmd)
	layoutCmd.AddCommand(renameFilesCmd)
	layoutCmd.AddCommand(reorganizeCmd)
}

func runLayout(cmd *cobra.Command, op func(*files.Layout, string) (files.Result, error), root string) error {
	res, err := op(files.NewLayout(logger, cfg.Layout.Indices), root)
	for _, m := range res.Moves {
		fmt.Fprintf(cmd.OutOrStdout(), "- %s -> %s\n", m.From, m.To)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d moved, %d folders removed.\n", len(res.Moves), len(res.Removed))
	return nil
}
