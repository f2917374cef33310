package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/autoprop"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of autoprop",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autoprop version %s\n", autoprop.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
