// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/parking-control/pkg/adapter/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration settings actions",
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Describe the environment variables overriding the settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := config.EnvDescription()
		if err != nil {
			return fmt.Errorf("describing environment variables: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}
