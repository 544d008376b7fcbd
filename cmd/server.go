package cmd

import (
	"beatstore/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the beatstore HTTP server",
	Long:  `Start the HTTP server serving the public catalog, the admin CRUD surface and the payment webhooks.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
