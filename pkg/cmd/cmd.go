// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/muzicc/pkg/app"
	"github.com/yeisme/muzicc/pkg/configs"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:     "muzicc",
		Short:   "Muzicc is a song sharing backend with content-addressed uploads",
		Version: configs.AppVersion,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApp(configPath).Run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "config file or directory")

	rootCmd.AddCommand(serveCmd)

	registerDBCommands()
	registerConfigCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
