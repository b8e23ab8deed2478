package cmd

import (
	"fmt"

	"VidPlayer/cache"
	"VidPlayer/logger"
	"VidPlayer/model"

	"github.com/spf13/cobra"
)

var redisPublish bool

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并进行基本读写操作；--publish 时向事件频道发送一条测试事件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		ctx := cmd.Context()
		client, err := cache.ConnectRedis(ctx, cfg)
		if err != nil {
			return fmt.Errorf("无法连接到Redis: %w", err)
		}
		defer client.Close()
		fmt.Fprintln(out, "Redis连接成功！")

		if err := cache.TestRedis(ctx, client); err != nil {
			return fmt.Errorf("Redis操作测试失败: %w", err)
		}
		fmt.Fprintln(out, "Redis基本操作测试成功！")

		if redisPublish {
			publisher := cache.NewEventPublisher(client, cfg.RedisChannel, 1)
			publisher.Notify(model.NewPlaylistEvent(model.EventPlaylistCreated, "redis_test", nil))
			publisher.Close()
			fmt.Fprintf(out, "测试事件已发布到 %s\n", cfg.RedisChannel)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
	redisCmd.Flags().BoolVar(&redisPublish, "publish", false, "发布一条测试事件")
}
