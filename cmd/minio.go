package cmd

import (
	"fmt"

	"VidPlayer/logger"
	"VidPlayer/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioObject string
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO 目录存储管理",
	Long:  `列出存储桶中的目录对象及统计信息。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return err
		}

		objects, stats, err := client.ListObjects(cmd.Context(), minioPrefix)
		if err != nil {
			return fmt.Errorf("列出文件失败: %w", err)
		}
		storage.PrintObjects(out, client.Bucket(), minioPrefix, objects, stats)
		return nil
	},
}

var minioUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "校验并上传目录文件",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return err
		}
		if err := client.EnsureBucket(cmd.Context(), cfg.MinioRegion); err != nil {
			return err
		}
		object := minioObject
		if object == "" {
			object = cfg.MinioObject
		}
		if err := client.UploadCatalogFile(cmd.Context(), object, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s/%s\n", args[0], client.Bucket(), object)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
	minioCmd.AddCommand(minioUploadCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "按前缀过滤文件")
	minioUploadCmd.Flags().StringVarP(&minioObject, "object", "o", "", "对象名称，默认 MINIO_OBJECT")

	minioCmd.Example = `  # 列出所有文件
  vidplayer minio

  # 按前缀过滤文件
  vidplayer minio -p "catalog/"

  # 上传目录文件
  vidplayer minio upload data/videos.txt`
}
