package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/config"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/engine"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/logger"
)

func main() {
	var root = &cobra.Command{
		Use:           "storyctl",
		Short:         "Generate company research stories from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(generateCMD(), researchCMD())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置文件（可选）并应用环境变量
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, fmt.Errorf("load config %s failed: %w", path, err)
		}
	}
	config.ApplyEnv(cfg)
	return cfg, nil
}

// newEngine 初始化日志与引擎，日志写到 stderr 以免污染标准输出
func newEngine(ctx context.Context, cfgPath string, stderr io.Writer) (*engine.Engine, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLoggerTo(stderr, cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, err
	}
	return engine.NewEngine(ctx, cfg)
}

// kratosLogger 业务层使用的 kratos 日志，只输出 warn 以上
func kratosLogger(w io.Writer) log.Logger {
	return log.NewFilter(log.NewStdLogger(w), log.FilterLevel(log.LevelWarn))
}
