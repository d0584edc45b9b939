package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcbridge/bc/pkg/discovery"
)

func init() {
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{ // nolint:exhaustruct
	Use:   "discover",
	Short: "Locate a camera by UID using the configured discovery strategies.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cameraConfigFromFlags()
		if err := cfg.Validate(); err != nil {
			return err
		}

		mgr, err := discovery.NewManager(cfg.ManagerConfig())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := mgr.Resolve(ctx, cfg.UID)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", cfg.UID, err)
		}

		fmt.Printf("uid:           %s\n", res.UID)
		fmt.Printf("transport:     %s\n", res.Kind)
		fmt.Printf("addr:          %s\n", res.Addr)
		fmt.Printf("via:           %s\n", res.Via)
		if res.ConnectionID != 0 {
			fmt.Printf("connection id: %d\n", res.ConnectionID)
		}
		return nil
	},
}
