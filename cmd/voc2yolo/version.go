package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of voc2yolo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voc2yolo %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
