package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{ // nolint:exhaustruct
	Use:   "login",
	Short: "Resolve, connect to, and log into a camera, then print its DeviceInfo reply.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cameraConfigFromFlags()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		sess, err := connectAndLogin(ctx, cfg)
		if err != nil {
			return err
		}
		defer sess.Close()

		fmt.Printf("state:       %s\n", sess.State())
		info := sess.DeviceInfo()
		fmt.Printf("device info: %d bytes\n", len(info))
		if len(info) > 0 {
			fmt.Println(string(info))
		}
		return nil
	},
}
