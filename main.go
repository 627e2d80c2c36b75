package main

import (
	"bufio"
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"lasertag/client"
)

// LaserTag 客户端入口：加入服务端，把键盘输入交给同步核心，可选开启管理/视图接口
func main() {
	// .env 可选，不存在时只使用环境变量与命令行参数
	envErr := godotenv.Load()

	cfg := client.DefaultConfig()
	flag.StringVar(&cfg.ServerHost, "host", getEnv("LASERTAG_SERVER", cfg.ServerHost), "server host name or address")
	flag.StringVar(&cfg.ServerPort, "port", getEnv("LASERTAG_SERVICE", cfg.ServerPort), "server port or service name")
	flag.StringVar(&cfg.AdminAddr, "admin", getEnv("LASERTAG_ADMIN", ""), "admin/feed listen address, e.g. 127.0.0.1:8081")
	flag.StringVar(&cfg.LogFile, "log", getEnv("LASERTAG_LOG", "client.log"), "log file path, empty disables logging")
	flag.Float64Var(&cfg.DropProb, "drop", 0, "simulated packet drop probability")
	debug := flag.Bool("debug", false, "debug level logging")
	flag.Parse()

	if cfg.LogFile != "" {
		level := zapcore.InfoLevel
		if *debug {
			level = zapcore.DebugLevel
		}
		if err := client.InitLogger(cfg.LogFile, level); err != nil {
			panic(err)
		}
	}
	defer client.SyncLogger()
	if envErr != nil {
		client.Log.Debugw("no .env loaded", "err", envErr)
	}

	session, err := client.Dial(cfg)
	if err != nil {
		client.Log.Errorw("dial", "err", err)
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AdminAddr != "" {
		srv := &http.Server{Addr: cfg.AdminAddr, Handler: client.NewAdminMux(session)}
		go func() {
			client.Log.Infof("admin listening on %s", cfg.AdminAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				client.Log.Errorf("admin listen: %v", err)
			}
		}()
		defer srv.Close()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = session.Run(ctx)
	}()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			client.Log.Errorw("enable raw mode", "err", err)
		} else {
			defer func() { _ = term.Restore(fd, oldState) }()
		}
	}
	go readKeys(bufio.NewReader(os.Stdin), session, stop)

	<-done
	client.Log.Info("Shutting down...")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
