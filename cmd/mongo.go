package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"beatstore/config"
	"beatstore/db"

	"github.com/spf13/cobra"
)

var mongoCmd = &cobra.Command{
	Use:   "mongo",
	Short: "MongoDB connection test",
	Long:  `Test the MongoDB connection and report how many beats the collection holds.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Testing MongoDB connection...")

		cfg := config.Load()
		if cfg.MongoURI == "" {
			log.Fatal("MONGODB_URI is not set")
		}
		db.ConfigureMongo(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		coll, err := db.BeatsCollection(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		fmt.Println("MongoDB connection successful!")

		count, err := coll.CountDocuments(ctx, map[string]interface{}{})
		if err != nil {
			log.Fatalf("Failed to count beats: %v", err)
		}
		fmt.Printf("Beats collection holds %d record(s).\n", count)

		if err := db.CloseMongo(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
		fmt.Println("MongoDB test complete, connection closed.")
	},
}

func init() {
	rootCmd.AddCommand(mongoCmd)
}
