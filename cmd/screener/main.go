package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"resume-screener-go/internal/agent"
	"resume-screener-go/internal/api/handler"
	"resume-screener-go/internal/api/router"
	"resume-screener-go/internal/config"
	appLogger "resume-screener-go/internal/logger"
	"resume-screener-go/internal/outbox"
	"resume-screener-go/internal/processor"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/tracing"
)

var (
	version     = "1.0.0"           //nolint:gochecknoglobals
	serviceName = "resume-screener" //nolint:gochecknoglobals
)

func main() {
	var (
		configPath     string
		initConfigPath string
	)
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "配置文件路径")
	pflag.StringVar(&initConfigPath, "init-config", "", "生成示例配置文件到指定路径后退出")
	pflag.Parse()

	if initConfigPath != "" {
		if err := config.CreateSampleConfig(initConfigPath); err != nil {
			log.Fatalf("生成示例配置失败: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg.Logger)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Tracing.Endpoint != "" {
		shutdownTracer, err := tracing.InitTracerProvider(ctx, serviceName, version, cfg.Tracing.Endpoint)
		if err != nil {
			glog.Fatalf("初始化追踪失败: %v", err)
		}
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := shutdownTracer(shutdownCtx); err != nil {
				glog.Warnf("追踪退出失败: %v", err)
			}
		}()
		glog.Infof("追踪已启用，OTLP端点: %s", cfg.Tracing.Endpoint)
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	resumeProcessor, err := processor.CreateProcessorFromConfig(ctx, cfg, storageManager)
	if err != nil {
		glog.Fatalf("初始化简历处理器失败: %v", err)
	}
	glog.Info("简历处理器初始化成功")

	var answerer processor.AnswerGenerator
	if cfg.Aliyun.APIKey != "" {
		a, err := agent.NewAnswerer(cfg.Answerer, cfg.Aliyun.APIKey, cfg.Aliyun.APIURL, &appLogger.Logger)
		if err != nil {
			glog.Fatalf("初始化问答器失败: %v", err)
		}
		answerer = a
		glog.Info("检索问答器初始化成功")
	} else {
		glog.Warn("未配置阿里云API密钥，检索只返回分块，不生成回答")
	}

	searchService, err := processor.NewSearchService(cfg, storageManager, resumeProcessor.TextEmbedder, answerer, &appLogger.Logger)
	if err != nil {
		glog.Fatalf("初始化检索服务失败: %v", err)
	}
	glog.Info("检索服务初始化成功")

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, resumeProcessor)
	searchHandler := handler.NewSearchHandler(searchService)

	var messageRelay *outbox.MessageRelay
	if storageManager.MySQL != nil && storageManager.RabbitMQ != nil {
		messageRelay = outbox.NewMessageRelay(storageManager.MySQL.DB(), storageManager.RabbitMQ, appLogger.Logger,
			outbox.WithPollingInterval(config.GetDuration(cfg.RabbitMQ.RetryInterval, 5*time.Second)))
		messageRelay.Start()
		glog.Info("发件箱消息中继已启动")
	} else {
		glog.Warn("MySQL或RabbitMQ未初始化，发件箱消息中继未启动")
	}

	// 消费者在独立goroutine里跑，上下文里带上全局logger供回调取用
	consumerCtx := appLogger.WithContext(context.Background())
	go func() {
		if err := resumeHandler.StartExtractionConsumer(consumerCtx); err != nil {
			glog.Fatalf("启动文本提取消费者失败: %v", err)
		}
		if err := resumeHandler.StartIndexingConsumer(consumerCtx); err != nil {
			glog.Fatalf("启动索引消费者失败: %v", err)
		}
		glog.Info("所有消费者已启动")
	}()

	serverTracer, serverTracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		serverTracer,
	)
	h.Use(hertztracing.ServerMiddleware(serverTracerCfg))

	router.RegisterRoutes(h, resumeHandler, searchHandler, cfg)
	glog.Info("HTTP路由注册成功")

	go func() {
		glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	if messageRelay != nil {
		messageRelay.Stop()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化全局日志（控制台和文件双写），并把Hertz日志接到同一个zerolog实例
func initLogger(cfg config.LoggerConfig) {
	logger := appLogger.Init(appLogger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		TimeFormat:   cfg.TimeFormat,
		ReportCaller: cfg.ReportCaller,
		File:         filepath.Join("logs", "app.log"),
	})

	glog.SetLogger(hertzadapter.From(logger))
	switch zerolog.GlobalLevel() {
	case zerolog.DebugLevel:
		glog.SetLevel(glog.LevelDebug)
	case zerolog.WarnLevel:
		glog.SetLevel(glog.LevelWarn)
	case zerolog.ErrorLevel:
		glog.SetLevel(glog.LevelError)
	default:
		glog.SetLevel(glog.LevelInfo)
	}
}
