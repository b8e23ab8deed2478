package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"VidPlayer/core/console"
	"VidPlayer/logger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "vidplayer",
	Short: "VidPlayer is a single-user video playback console.",
	Long: `VidPlayer loads a video catalog and starts an interactive console for
playing, pausing, flagging and organising videos into playlists.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []console.Option
		if term.IsTerminal(int(os.Stdin.Fd())) {
			opts = append(opts, console.WithPrompt("> "))
		}
		return runConsole(ctx, os.Stdin, opts...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "配置文件路径（默认读取当前目录下的 .env）")
}

// runConsole 装配会话并在 in 上运行控制台
func runConsole(ctx context.Context, in io.Reader, opts ...console.Option) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sess, closer, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	err = console.New(sess, in, os.Stdout, opts...).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
