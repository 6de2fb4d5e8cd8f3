package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"clockwise/backend/config"
	"clockwise/backend/internal/api/handler"
	"clockwise/backend/internal/api/router"
	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/repository"
	"clockwise/backend/internal/service"
	"clockwise/backend/pkg/database"
	"clockwise/backend/pkg/jwt"
	applogger "clockwise/backend/pkg/logger"
	"clockwise/backend/pkg/push"
	"clockwise/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（消息流必需，连接失败即中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 5. 初始化消息网关与推送发送器
	gateway := messaging.NewRedisGateway(rdb.Raw(), &cfg.Messaging, logger)
	sender := push.NewSender(&cfg.Push, logger)

	// 6. 初始化 JWT 管理器（Token 由身份服务签发，本服务只验签）
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, gateway, sender, logger)
	h := handler.NewHandler(svc)

	// 8. 注册入站消息处理器并启动消费
	service.RegisterInboundHandlers(gateway, svc, logger)
	svc.Notifier.Start()

	gatewayCtx, gatewayCancel := context.WithCancel(context.Background())
	defer gatewayCancel()
	if err := gateway.Start(gatewayCtx); err != nil {
		logger.Fatal("消息网关启动失败", zap.Error(err))
	}

	// 9. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 先停消费，再停协调器，保证在途消息处理完
	if err := gateway.Close(); err != nil {
		logger.Error("消息网关关闭异常", zap.Error(err))
	}
	svc.Notifier.Close()

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}
	rdb.Close()

	logger.Info("服务器已关闭")
}
