package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/tracksheet/binding"
	"github.com/ByLCY/tracksheet/config"
	"github.com/ByLCY/tracksheet/dsl"
	"github.com/ByLCY/tracksheet/layout"
	"github.com/ByLCY/tracksheet/logging"
	"github.com/ByLCY/tracksheet/tracker"
)

// cliOptions 汇总命令行参数。
type cliOptions struct {
	configPath string
	jsonInput  string
	dataJSON   string
	backend    string
	scriptFont string
	outDir     string
	debugDir   string
	pageSize   string
	preview    bool
	dataURI    bool

	title       string
	from        int
	to          int
	reps        int
	group       int
	orientation string
	shape       string
	grid        bool
}

// job 是一张待生成的表格。
type job struct {
	cfg    layout.SheetConfig
	prefix string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "tracksheet [file.tally]",
		Short: "生成记忆复习打卡表 PDF",
		Long: `tracksheet 根据编号范围生成可打印的复习打卡表：每个编号或分组一行圆圈/方块记号，
也可以生成带编号的方格表。输入可以是 .tally 批量文件、JSON 输入对象或命令行参数。`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "配置文件路径（默认 tracksheet.yaml 或 $TRACKSHEET_CONFIG）")
	f.StringVar(&opts.jsonInput, "json", "", "JSON 输入对象文件，- 表示标准输入")
	f.StringVar(&opts.dataJSON, "data", "", "绑定到标题 ${...} 占位符的 JSON 数据")
	f.StringVar(&opts.backend, "backend", "", "渲染后端：canvas 或 fpdf")
	f.StringVar(&opts.scriptFont, "script-font", "", "阿拉伯文标题使用的 TTF 字体")
	f.StringVarP(&opts.outDir, "out", "o", "", "PDF 输出目录")
	f.StringVar(&opts.debugDir, "debug", "", "布局调试 JSON 输出目录")
	f.StringVar(&opts.pageSize, "page", "", "纸张：A4、A5 或 LETTER")
	f.BoolVar(&opts.preview, "preview", false, "同时输出第 1 页的 PNG 预览")
	f.BoolVar(&opts.dataURI, "data-uri", false, "在标准输出打印 PDF 的 data URI")

	f.StringVar(&opts.title, "title", "", "表格标题")
	f.IntVar(&opts.from, "from", 0, "起始编号")
	f.IntVar(&opts.to, "to", 0, "结束编号")
	f.IntVar(&opts.reps, "reps", 5, "每行重复次数")
	f.IntVar(&opts.group, "group", 0, "每组数量；大于 0 时按分组生成")
	f.StringVar(&opts.orientation, "orientation", "portrait", "纸张方向：portrait 或 landscape")
	f.StringVar(&opts.shape, "shape", "circle", "记号形状：circle 或 square")
	f.BoolVar(&opts.grid, "grid", false, "生成带编号的方格表")
	return cmd
}

// run 串联配置、输入解析、排版与渲染。
func run(cmd *cobra.Command, args []string, opts *cliOptions, stdout io.Writer) error {
	cfg, err := config.Load(config.ResolvePath(opts.configPath))
	if err != nil {
		return err
	}
	overrideConfig(cmd, &cfg, opts)
	logging.Init(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, File: cfg.Logging.File})
	defer logging.Close()
	log := logging.WithComponent("cli")

	jobs, err := collectJobs(cmd, args, opts, cfg)
	if err != nil {
		return err
	}
	backend, err := tracker.NewBackend(cfg.Render.Backend)
	if err != nil {
		return err
	}

	for _, j := range jobs {
		doc, err := tracker.Generate(j.cfg, tracker.Options{
			Backend:      backend,
			ScriptFont:   cfg.Render.ScriptFont,
			FileTemplate: cfg.Output.FileTemplate,
			FilePrefix:   j.prefix,
			Logger:       logging.WithComponent("layout"),
		})
		if err != nil {
			return fmt.Errorf("生成 %q 失败: %w", j.cfg.Title, err)
		}
		path, err := doc.Save(cfg.Output.Dir)
		if err != nil {
			return err
		}
		log.Info("已生成 PDF", slog.String("path", path), slog.Int("pages", doc.PageCount()))

		base := strings.TrimSuffix(doc.FileName(), filepath.Ext(doc.FileName()))
		if opts.debugDir != "" {
			if err := layout.WriteDebugJSON(doc.Layout, filepath.Join(opts.debugDir, base+".json")); err != nil {
				return fmt.Errorf("输出调试 JSON 失败: %w", err)
			}
		}
		if opts.preview {
			png, err := doc.PreviewPNG(1, float64(cfg.Render.PreviewDPM))
			if err != nil {
				return fmt.Errorf("生成预览失败: %w", err)
			}
			if err := os.WriteFile(filepath.Join(cfg.Output.Dir, base+".png"), png, 0o644); err != nil {
				return fmt.Errorf("写入预览失败: %w", err)
			}
		}
		if opts.dataURI {
			fmt.Fprintln(stdout, doc.DataURI())
		} else {
			fmt.Fprintf(stdout, "已生成 PDF：%s\n", path)
		}
	}
	return nil
}

// overrideConfig 让显式传入的命令行参数覆盖配置文件与环境变量。
func overrideConfig(cmd *cobra.Command, cfg *config.AppConfig, opts *cliOptions) {
	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Render.Backend = opts.backend
	}
	if f.Changed("script-font") {
		cfg.Render.ScriptFont = opts.scriptFont
	}
	if f.Changed("out") {
		cfg.Output.Dir = opts.outDir
	}
	if f.Changed("page") {
		cfg.Render.PageSize = opts.pageSize
	}
}

// collectJobs 从 .tally 文件、JSON 输入或命令行参数中恰好选择一种输入来源。
func collectJobs(cmd *cobra.Command, args []string, opts *cliOptions, cfg config.AppConfig) ([]job, error) {
	sources := 0
	if len(args) == 1 {
		sources++
	}
	if opts.jsonInput != "" {
		sources++
	}
	if cmd.Flags().Changed("title") {
		sources++
	}
	switch sources {
	case 0:
		return nil, fmt.Errorf("需要 .tally 文件、--json 或 --title 之一")
	case 1:
	default:
		return nil, fmt.Errorf(".tally 文件、--json 与 --title 只能选择一种")
	}

	var data any
	if opts.dataJSON != "" {
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	maxNo := cfg.Limits.MaxNumber
	switch {
	case len(args) == 1:
		return tallyJobs(args[0], data, cfg)
	case opts.jsonInput != "":
		var r io.Reader = cmd.InOrStdin()
		if opts.jsonInput != "-" {
			file, err := os.Open(opts.jsonInput)
			if err != nil {
				return nil, fmt.Errorf("无法打开输入文件 %s: %w", opts.jsonInput, err)
			}
			defer file.Close()
			r = file
		}
		req, err := tracker.DecodeInput(r, maxNo)
		if err != nil {
			return nil, err
		}
		if req.Config.PageSize == "" {
			req.Config.PageSize = cfg.Render.PageSize
		}
		return []job{{cfg: req.Config, prefix: req.FilePrefix}}, nil
	default:
		sc, err := inlineConfig(opts, cfg)
		if err != nil {
			return nil, err
		}
		sc.Title = binding.Interpolate(sc.Title, data)
		if err := sc.Validate(maxNo); err != nil {
			return nil, err
		}
		return []job{{cfg: sc}}, nil
	}
}

func tallyJobs(path string, data any, cfg config.AppConfig) ([]job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.ParseFile(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	base := dsl.BaseDefaults()
	base.PageSize = cfg.Render.PageSize
	sheets, err := doc.Sheets(base, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	jobs := make([]job, 0, len(sheets))
	for _, sc := range sheets {
		if err := sc.Validate(cfg.Limits.MaxNumber); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sc.Title, err)
		}
		jobs = append(jobs, job{cfg: sc})
	}
	return jobs, nil
}

func inlineConfig(opts *cliOptions, cfg config.AppConfig) (layout.SheetConfig, error) {
	orientation, err := layout.ParseOrientation(opts.orientation)
	if err != nil {
		return layout.SheetConfig{}, err
	}
	shape, err := layout.ParseShape(opts.shape)
	if err != nil {
		return layout.SheetConfig{}, err
	}
	sc := layout.SheetConfig{
		Title:       opts.title,
		Start:       opts.from,
		End:         opts.to,
		Repetitions: opts.reps,
		GroupSize:   1,
		Orientation: orientation,
		Shape:       shape,
		Kind:        layout.KindRows,
		PageSize:    cfg.Render.PageSize,
	}
	if opts.group > 0 {
		sc.Grouped = true
		sc.GroupSize = opts.group
	}
	if opts.grid {
		sc.Kind = layout.KindGrid
	}
	return sc, nil
}
