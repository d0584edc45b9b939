package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcbridge/bc/pkg/media"
	"github.com/bcbridge/bc/pkg/router"
)

var (
	previewChannel    int
	previewDuration   time.Duration
	previewStreamType string
)

func init() {
	previewCmd.Flags().IntVar(&previewChannel, "channel", 0, "camera channel id")
	previewCmd.Flags().DurationVar(&previewDuration, "duration", 5*time.Second, "how long to capture before stopping")
	previewCmd.Flags().StringVar(&previewStreamType, "stream", router.StreamTypeMain, "stream type: mainStream|subStream")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{ // nolint:exhaustruct
	Use:   "preview",
	Short: "Log in and capture one Preview stream, reporting parsed media packets.",
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

		r := router.New(sess, sess.Incoming(), router.Config{LoggerFactory: cfg.LoggerFactory})
		sub, err := r.StartPreview(previewChannel, previewStreamType, 32)
		if err != nil {
			return fmt.Errorf("start preview: %w", err)
		}

		dec := media.NewDecoder(media.Config{LoggerFactory: cfg.LoggerFactory})
		feedCtx, stopFeed := context.WithCancel(context.Background())
		defer stopFeed()

		go func() {
			for msg := range sub.Messages() {
				if err := dec.Feed(feedCtx, msg.Payload); err != nil {
					return
				}
			}
		}()

		count := 0
		deadline := time.After(previewDuration)
	loop:
		for {
			select {
			case pkt, ok := <-dec.Packets():
				if !ok {
					break loop
				}
				count++
				fmt.Printf("[%d] %s codec=%s payload=%dB\n", count, pkt.Kind, pkt.Codec, len(pkt.Payload))
			case <-deadline:
				break loop
			}
		}

		if err := sub.Close(); err != nil {
			fmt.Printf("stop preview: %v\n", err)
		}
		fmt.Printf("captured %d media packets\n", count)
		return nil
	},
}
