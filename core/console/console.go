package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"VidPlayer/core/outcome"
	"VidPlayer/core/session"
	"VidPlayer/logger"
	"VidPlayer/model"
)

const (
	greeting     = "Hello and welcome to VidPlayer, what would you like to do?"
	helpHint     = "Enter HELP for list of available commands or EXIT to terminate."
	farewell     = "VidPlayer has now terminated its execution. Thank you and goodbye!"
	invalidInput = "Please enter a valid command, type HELP for a list of available commands."
)

// command 一条控制台命令的定义
type command struct {
	usage   string
	minArgs int
	maxArgs int // -1 表示无上限
	run     func(c *Console, args []string)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"NUMBER_OF_VIDEOS":       {"NUMBER_OF_VIDEOS", 0, 0, (*Console).numberOfVideos},
		"SHOW_ALL_VIDEOS":        {"SHOW_ALL_VIDEOS", 0, 0, (*Console).showAllVideos},
		"PLAY":                   {"PLAY <video_id>", 1, 1, (*Console).play},
		"STOP":                   {"STOP", 0, 0, (*Console).stop},
		"PLAY_RANDOM":            {"PLAY_RANDOM", 0, 0, (*Console).playRandom},
		"PAUSE":                  {"PAUSE", 0, 0, (*Console).pause},
		"CONTINUE":               {"CONTINUE", 0, 0, (*Console).resume},
		"SHOW_PLAYING":           {"SHOW_PLAYING", 0, 0, (*Console).showPlaying},
		"CREATE_PLAYLIST":        {"CREATE_PLAYLIST <playlist_name>", 1, -1, (*Console).createPlaylist},
		"ADD_TO_PLAYLIST":        {"ADD_TO_PLAYLIST <playlist_name> <video_id>", 2, 2, (*Console).addToPlaylist},
		"REMOVE_FROM_PLAYLIST":   {"REMOVE_FROM_PLAYLIST <playlist_name> <video_id>", 2, 2, (*Console).removeFromPlaylist},
		"CLEAR_PLAYLIST":         {"CLEAR_PLAYLIST <playlist_name>", 1, 1, (*Console).clearPlaylist},
		"DELETE_PLAYLIST":        {"DELETE_PLAYLIST <playlist_name>", 1, 1, (*Console).deletePlaylist},
		"SHOW_ALL_PLAYLISTS":     {"SHOW_ALL_PLAYLISTS", 0, 0, (*Console).showAllPlaylists},
		"SHOW_PLAYLIST":          {"SHOW_PLAYLIST <playlist_name>", 1, 1, (*Console).showPlaylist},
		"SEARCH_VIDEOS":          {"SEARCH_VIDEOS <search_term>", 1, -1, (*Console).searchVideos},
		"SEARCH_VIDEOS_WITH_TAG": {"SEARCH_VIDEOS_WITH_TAG <tag_name>", 1, 1, (*Console).searchVideosWithTag},
		"FLAG_VIDEO":             {"FLAG_VIDEO <video_id> [flag_reason]", 1, -1, (*Console).flagVideo},
		"ALLOW_VIDEO":            {"ALLOW_VIDEO <video_id>", 1, 1, (*Console).allowVideo},
		"HELP":                   {"HELP", 0, 0, (*Console).help},
	}
}

// Console 基于文本行的交互控制台
type Console struct {
	session *session.Session
	in      *bufio.Reader
	out     io.Writer
	prompt  string
	err     error // 第一次写入失败

	// Run 期间由读取协程提供输入行，读取阻塞时仍能响应 ctx 取消
	ctx   context.Context
	lines <-chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// Option configures a Console.
type Option func(*Console)

// WithPrompt 设置每次读取命令前输出的提示符
func WithPrompt(prompt string) Option {
	return func(c *Console) {
		c.prompt = prompt
	}
}

// New 创建控制台，in 同时用于读取命令和搜索后的播放选择
func New(s *session.Session, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		session: s,
		in:      bufio.NewReader(in),
		out:     out,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run 循环读取并执行命令，直到 EXIT、输入结束或 ctx 取消
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.ctx, c.lines = ctx, c.readLines(done)
	defer func() { c.ctx, c.lines = nil, nil }()

	c.println(greeting)
	c.println(helpHint)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.prompt != "" {
			c.print(c.prompt)
		}
		line, err := c.readLine()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				c.println(farewell)
				return c.err
			}
			return fmt.Errorf("read command: %w", err)
		}
		if !c.Execute(line) {
			c.println(farewell)
			return c.err
		}
		if c.err != nil {
			return c.err
		}
	}
}

// Execute 执行一行命令，返回 false 表示收到 EXIT
func (c *Console) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	name := strings.ToUpper(fields[0])
	args := fields[1:]
	if name == "EXIT" {
		return false
	}

	cmd, ok := commands[name]
	if !ok || len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		logger.Debug("invalid console command", logger.String("line", line))
		c.println(invalidInput)
		return true
	}
	cmd.run(c, args)
	return true
}

// Err 返回第一次输出失败的错误
func (c *Console) Err() error {
	return c.err
}

// readLines 在后台逐行读取输入，done 关闭后退出
func (c *Console) readLines(done <-chan struct{}) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		defer close(lines)
		for {
			line, err := c.in.ReadString('\n')
			select {
			case lines <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (c *Console) readLine() (string, error) {
	if c.lines == nil {
		line, err := c.in.ReadString('\n')
		return strings.TrimRight(line, "\r\n"), err
	}
	select {
	case <-c.ctx.Done():
		return "", c.ctx.Err()
	case r, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

func (c *Console) print(s string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.out, s)
}

func (c *Console) println(s string) {
	c.print(s + "\n")
}

func (c *Console) printf(format string, args ...interface{}) {
	c.print(fmt.Sprintf(format, args...))
}

// printEvents 输出播放类事件
func (c *Console) printEvents(events []model.Event) {
	for _, e := range events {
		if line, ok := eventLine(e); ok {
			c.println(line)
		}
	}
}

// ========== 目录 ==========

func (c *Console) numberOfVideos(_ []string) {
	c.printf("%d videos in the library\n", c.session.CountVideos())
}

func (c *Console) showAllVideos(_ []string) {
	videos := c.session.Videos()
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Title < videos[j].Title })
	c.println("Here's a list of all available videos:")
	for _, v := range videos {
		c.println("\t" + FormatVideo(v))
	}
}

// ========== 播放控制 ==========

func (c *Console) play(args []string) {
	events, err := c.session.Play(args[0])
	if err != nil {
		c.println("Cannot play video: " + reason(err))
		return
	}
	c.printEvents(events)
}

func (c *Console) stop(_ []string) {
	events, err := c.session.Stop()
	if err != nil {
		c.println("Cannot stop video: " + reason(err))
		return
	}
	c.printEvents(events)
}

func (c *Console) playRandom(_ []string) {
	events, err := c.session.PlayRandom()
	if err != nil {
		c.println(reason(err))
		return
	}
	c.printEvents(events)
}

func (c *Console) pause(_ []string) {
	events, err := c.session.Pause()
	if errors.Is(err, outcome.ErrAlreadyPaused) {
		v, _ := c.session.NowPlaying()
		c.println("Video already paused: " + v.Title)
		return
	}
	if err != nil {
		c.println("Cannot pause video: " + reason(err))
		return
	}
	c.printEvents(events)
}

func (c *Console) resume(_ []string) {
	events, err := c.session.Resume()
	if err != nil {
		c.println("Cannot continue video: " + reason(err))
		return
	}
	c.printEvents(events)
}

func (c *Console) showPlaying(_ []string) {
	v, ok := c.session.NowPlaying()
	if !ok {
		c.println("No video is currently playing")
		return
	}
	c.println("Currently playing: " + FormatVideo(v))
}

// ========== 播放列表 ==========

func (c *Console) createPlaylist(args []string) {
	// 多个单词交给会话校验，返回名称非法
	name := strings.Join(args, " ")
	if _, err := c.session.CreatePlaylist(name); err != nil {
		c.println("Cannot create playlist: " + reason(err))
		return
	}
	c.println("Successfully created new playlist: " + name)
}

func (c *Console) addToPlaylist(args []string) {
	name := args[0]
	events, err := c.session.AddToPlaylist(name, args[1])
	if err != nil {
		c.printf("Cannot add video to %s: %s\n", name, reason(err))
		return
	}
	c.printf("Added video to %s: %s\n", name, events[0].Title)
}

func (c *Console) removeFromPlaylist(args []string) {
	name := args[0]
	events, err := c.session.RemoveFromPlaylist(name, args[1])
	if err != nil {
		c.printf("Cannot remove video from %s: %s\n", name, reason(err))
		return
	}
	c.printf("Removed video from %s: %s\n", name, events[0].Title)
}

func (c *Console) clearPlaylist(args []string) {
	name := args[0]
	if _, err := c.session.ClearPlaylist(name); err != nil {
		c.printf("Cannot clear playlist %s: %s\n", name, reason(err))
		return
	}
	c.println("Successfully removed all videos from " + name)
}

func (c *Console) deletePlaylist(args []string) {
	name := args[0]
	if _, err := c.session.DeletePlaylist(name); err != nil {
		c.printf("Cannot delete playlist %s: %s\n", name, reason(err))
		return
	}
	c.println("Deleted playlist: " + name)
}

func (c *Console) showAllPlaylists(_ []string) {
	playlists := c.session.Playlists()
	if len(playlists) == 0 {
		c.println("No playlists exist yet")
		return
	}
	c.println("Showing all playlists:")
	for _, p := range playlists {
		c.println("\t" + p.Name)
	}
}

func (c *Console) showPlaylist(args []string) {
	name := args[0]
	view, err := c.session.Playlist(name)
	if err != nil {
		c.printf("Cannot show playlist %s: %s\n", name, reason(err))
		return
	}
	c.println("Showing playlist: " + name)
	if len(view.Videos) == 0 {
		c.println("\tNo videos here yet")
		return
	}
	for _, v := range view.Videos {
		c.println("\t" + FormatVideo(v))
	}
}

// ========== 搜索 ==========

func (c *Console) searchVideos(args []string) {
	term := strings.Join(args, " ")
	c.showResults(term, c.session.SearchByTitle(term))
}

func (c *Console) searchVideosWithTag(args []string) {
	c.showResults(args[0], c.session.SearchByTag(args[0]))
}

func (c *Console) showResults(term string, results []model.Video) {
	if len(results) == 0 {
		c.println("No search results for " + term)
		return
	}
	c.printf("Here are the results for %s: \n", term)
	for i, v := range results {
		c.printf("\t%d) %s\n", i+1, FormatVideo(v))
	}
	c.askPlay(results)
}

// askPlay 读取一行选择，非法输入视为放弃
func (c *Console) askPlay(results []model.Video) {
	c.println("Would you like to play any of the above? If yes, specify the number of the video.")
	c.println("If your answer is not a valid number, we will assume it's a no.")
	line, _ := c.readLine()
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(results) {
		return
	}
	c.play([]string{results[n-1].ID})
}

// ========== 审核 ==========

func (c *Console) flagVideo(args []string) {
	reasonText := strings.Join(args[1:], " ")
	events, err := c.session.Flag(args[0], reasonText)
	if err != nil {
		c.println("Cannot flag video: " + reason(err))
		return
	}
	c.printEvents(events)
	last := events[len(events)-1]
	c.printf("Successfully flagged video: %s (reason: %s)\n", last.Title, last.Reason)
}

func (c *Console) allowVideo(args []string) {
	events, err := c.session.Unflag(args[0])
	if err != nil {
		c.println("Cannot remove flag from video: " + reason(err))
		return
	}
	c.println("Successfully removed flag from video: " + events[0].Title)
}

func (c *Console) help(_ []string) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	c.println("Available commands:")
	for _, name := range names {
		c.println("\t" + commands[name].usage)
	}
	c.println("\tEXIT")
}
