package cmd

import (
	"fmt"
	"log"

	"beatstore/core/auth"

	"github.com/spf13/cobra"
)

var hashpwCmd = &cobra.Command{
	Use:   "hashpw [password]",
	Short: "Hash an admin password",
	Long:  `Generate the bcrypt hash to put in ADMIN_PASSWORD_HASH.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
	},
}

func init() {
	rootCmd.AddCommand(hashpwCmd)
}
