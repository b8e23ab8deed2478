package cmd

import (
	"context"
	"fmt"
	"io"

	"VidPlayer/cache"
	"VidPlayer/config"
	"VidPlayer/core/catalog"
	"VidPlayer/core/session"
	"VidPlayer/db"
	"VidPlayer/logger"
	"VidPlayer/repository"
	"VidPlayer/storage"
)

// loadConfig 读取配置，--env 指定的文件必须存在
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		cfg, err := config.LoadFile(envFile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		return cfg, nil
	}
	return config.Load(), nil
}

func initLogger(cfg *config.Config) error {
	return logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		Console:    cfg.LogConsole,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
}

// setup 加载配置并初始化日志
func setup() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := initLogger(cfg); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// closers 按注册的逆序关闭资源
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c *closers) Close() {
	for i := len(*c) - 1; i >= 0; i-- {
		(*c)[i]()
	}
}

// openSource 根据 CATALOG_SOURCE 构造目录数据源
func openSource(ctx context.Context, cfg *config.Config, cl *closers) (catalog.Source, error) {
	switch cfg.CatalogSource {
	case config.SourceFile:
		return catalog.NewFileSource(cfg.CatalogPath), nil

	case config.SourceMinio:
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioSource(client, cfg.MinioObject), nil

	case config.SourceMySQL, config.SourceSQLite:
		repo, err := openRepository(ctx, cfg, cfg.CatalogSource, cl)
		if err != nil {
			return nil, err
		}
		return repository.NewCatalogSource(repo, cfg.CatalogSource), nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

// openRepository 打开 mysql（gorm）或 sqlite（database/sql）目录仓库
func openRepository(ctx context.Context, cfg *config.Config, target string, cl *closers) (repository.CatalogRepository, error) {
	switch target {
	case config.SourceMySQL:
		gdb, err := db.ConnectGormDB(cfg)
		if err != nil {
			return nil, err
		}
		cl.add(func() {
			if err := db.CloseGormDB(gdb); err != nil {
				logger.Warn("close mysql", logger.ErrorField(err))
			}
		})
		return repository.NewGormCatalogRepository(gdb), nil

	case config.SourceSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		cl.add(func() { sqlDB.Close() })
		return repository.NewSQLCatalogRepository(sqlDB), nil

	default:
		return nil, fmt.Errorf("unsupported repository %q (want mysql or sqlite)", target)
	}
}

// loadCatalog 加载目录，失败时程序不能启动
func loadCatalog(ctx context.Context, cfg *config.Config, cl *closers) (*catalog.Catalog, error) {
	src, err := openSource(ctx, cfg, cl)
	if err != nil {
		return nil, err
	}
	c, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		logger.String("source", src.Name()),
		logger.Int("videos", c.Len()))
	return c, nil
}

// newSession 加载目录并按配置挂载事件观察者
func newSession(ctx context.Context, cfg *config.Config) (*session.Session, io.Closer, error) {
	var cl closers
	c, err := loadCatalog(ctx, cfg, &cl)
	if err != nil {
		cl.Close()
		return nil, nil, err
	}

	var opts []session.Option
	if cfg.RedisEnabled {
		client, err := cache.ConnectRedis(ctx, cfg)
		if err != nil {
			cl.Close()
			return nil, nil, err
		}
		publisher := cache.NewEventPublisher(client, cfg.RedisChannel, 0)
		cl.add(func() {
			publisher.Close()
			client.Close()
		})
		opts = append(opts, session.WithObserver(publisher))
		logger.Info("publishing session events to redis", logger.String("channel", cfg.RedisChannel))
	}

	return session.New(c, opts...), closerFunc(cl.Close), nil
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}
