package main

import (
	"fmt"
	"os"

	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "groupadmin",
	Short: "Manage group chat admins",
	Long: `groupadmin promotes members, lists admins and repairs groups that
were left without an admin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		config.AppConfig = cfg
		logger.Init(cfg.Environment)

		if err := database.Connect(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file to read before the environment")

	rootCmd.AddCommand(promoteCmd, demoteCmd, adminsCmd, repairCmd)
}
