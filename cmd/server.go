package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"VidPlayer/logger"
	"VidPlayer/server"

	"github.com/spf13/cobra"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动 HTTP API 服务",
	Long:  `启动 VidPlayer 的 HTTP API 服务，提供 JSON 接口、WebSocket 事件流和 Prometheus 指标`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverAddr != "" {
			cfg.HTTPAddr = serverAddr
		}
		if err := initLogger(cfg); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()

		sess, closer, err := newSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		srv, err := server.New(cfg, sess, server.NewEventHub())
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "监听地址，覆盖 HTTP_ADDR")
}
