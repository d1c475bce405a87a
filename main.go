package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ByLCY/linenum/config"
	"github.com/ByLCY/linenum/layout"
	"github.com/ByLCY/linenum/preview"
	"github.com/ByLCY/linenum/renderer"
	canvasrenderer "github.com/ByLCY/linenum/renderer/canvas"
	termrenderer "github.com/ByLCY/linenum/renderer/term"
	"github.com/ByLCY/linenum/scene"
	"github.com/ByLCY/linenum/textview"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand needs after flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "linenum",
		Short:         "为文本视图绘制行号",
		Long:          "linenum 读取场景文件，排版其中的文本并在左侧或右侧预留行号边距。",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "配置文件路径（默认读取当前目录的 "+config.FileName+"）")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "日志级别 debug|info|warn|error，覆盖配置文件")
	root.AddCommand(newRenderCmd(a), newPreviewCmd(a))
	return root
}

// init loads the config and builds the stderr logger; --log-level wins over
// the file.
func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	return nil
}

type renderFlags struct {
	output string
	format string
	debug  string
	width  int
	height int
}

func newRenderCmd(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "渲染场景为 PNG 图像或终端文本",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				f.format = a.cfg.Render.Format
			}
			if !cmd.Flags().Changed("output") {
				f.output = a.cfg.Render.Output
				if f.format == "term" {
					f.output = "-"
				}
			}
			return a.render(args[0], f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "输出路径，- 表示标准输出")
	cmd.Flags().StringVar(&f.format, "format", "", "输出格式 png|term")
	cmd.Flags().StringVar(&f.debug, "debug", "", "布局与绘制记录 JSON 输出路径")
	cmd.Flags().IntVar(&f.width, "width", 0, "覆盖场景中的视图宽度")
	cmd.Flags().IntVar(&f.height, "height", 0, "覆盖场景中的视图高度")
	return cmd
}

// render 串联场景解析、排版与渲染。
func (a *app) render(scenePath string, f renderFlags, stdout io.Writer) error {
	out := stdout
	if f.output != "-" {
		out = io.Discard // 写入文件时不输出颜色
	}
	backend, r, err := a.backend(f.format, scenePath, out)
	if err != nil {
		return err
	}
	sc, err := scene.Load(scenePath, backend, scene.Options{Logger: a.logger, Width: f.width, Height: f.height})
	if err != nil {
		return err
	}
	if f.debug != "" {
		if err := writeDebug(sc, f.debug); err != nil {
			return err
		}
	}

	data, err := r.Render(sc.View)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if f.format == "term" {
		data = append(data, '\n')
	}
	if f.output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(f.output, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	a.logger.Info("rendered", "scene", sc.Name, "format", f.format, "output", f.output,
		"lines", sc.View.LineCount(), "margin", sc.View.Gutter().Reservation().Reserved)
	return nil
}

// backend returns one value twice: as the scene's layout backend and as the
// renderer that paints it.
func (a *app) backend(format, scenePath string, out io.Writer) (scene.Backend, renderer.Renderer, error) {
	switch format {
	case "png":
		baseDir := a.cfg.Render.FontDir
		if baseDir == "" {
			baseDir = filepath.Dir(scenePath)
		}
		r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir, Scale: a.cfg.Render.Scale})
		return r, r, nil
	case "term":
		r := termrenderer.New(lipgloss.NewRenderer(out))
		return r, r, nil
	}
	return nil, nil, fmt.Errorf("不支持的输出格式 %q", format)
}

// debugDump is what --debug writes.
type debugDump struct {
	Scene *scene.Scene  `json:"scene"`
	View  textview.Dump `json:"view"`
}

func writeDebug(sc *scene.Scene, path string) error {
	dump, err := sc.View.Record()
	if err != nil {
		return fmt.Errorf("记录绘制过程失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(debugDump{Scene: sc, View: dump}, path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <scene>",
		Short: "在终端中交互式预览场景",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := termrenderer.New(nil)
			sc, err := scene.Load(args[0], r, scene.Options{
				Logger: a.logger,
				Width:  a.cfg.Preview.Width,
				Height: a.cfg.Preview.Height,
			})
			if err != nil {
				return err
			}
			return preview.Run(sc.View, r, preview.Options{Title: sc.Name, ScrollStep: a.cfg.Preview.ScrollStep})
		},
	}
}
