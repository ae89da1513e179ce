package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/muzicc/pkg/configs"
	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands",
	}

	dbListCmd = &cobra.Command{
		Use:   "ls",
		Short: "list all registered database types",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")
			for _, dbType := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), " - "+dbType)
			}
		},
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "run schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return fmt.Errorf("init config: %w", err)
			}

			client, err := db.New(cmd.Context(), &configs.GetConfig().DB)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}

			if err := client.AutoMigrate(&model.User{}, &model.Song{}); err != nil {
				return fmt.Errorf("migrate schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}
