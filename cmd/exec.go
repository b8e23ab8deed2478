package cmd

import (
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"VidPlayer/core/console"

	"github.com/spf13/cobra"
)

var (
	execFollow  bool
	execCommand []string
)

var execCmd = &cobra.Command{
	Use:   "exec [script]",
	Short: "从脚本文件执行控制台命令",
	Long: `逐行执行脚本文件中的控制台命令，输出与交互模式一致。
不指定脚本或脚本为 "-" 时读取标准输入；--follow 时持续等待脚本追加的新命令。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if len(execCommand) > 0 {
			script := strings.Join(execCommand, "\n") + "\n"
			return runConsole(ctx, strings.NewReader(script))
		}

		var in io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			if execFollow {
				tail, err := console.OpenTail(ctx, args[0])
				if err != nil {
					return err
				}
				defer tail.Close()
				in = tail
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
		}
		return runConsole(ctx, in)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().BoolVarP(&execFollow, "follow", "f", false, "脚本读完后继续等待新追加的命令")
	execCmd.Flags().StringArrayVarP(&execCommand, "command", "c", nil, "直接执行的命令，可重复指定")

	execCmd.Example = `  # 执行脚本
  vidplayer exec commands.txt

  # 持续执行追加到脚本中的命令
  vidplayer exec -f commands.txt

  # 直接执行命令
  vidplayer exec -c "PLAY amazing_cats_video_id" -c "SHOW_PLAYING"`
}
