package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/equiplend/lending-service/config"
	"github.com/equiplend/lending-service/internal/handler"
	"github.com/equiplend/lending-service/internal/repository"
	"github.com/equiplend/lending-service/internal/server"
	"github.com/equiplend/lending-service/internal/service"
	"github.com/equiplend/lending-service/migrations"
	"github.com/equiplend/lending-service/pkg/auth"
	"github.com/equiplend/lending-service/pkg/kafka"
	"github.com/equiplend/lending-service/pkg/logger"
	"github.com/equiplend/lending-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "lending")
	auth.JWTKey = []byte(cfg.JWTKey)

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var (
		producer sarama.SyncProducer
		pub      service.Publisher
	)
	if len(cfg.Kafka.Addrs) > 0 {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		pub = service.NewKafkaPublisher(producer)
	}

	svc := service.NewService(repo, pub, log)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	g, gCtx := errgroup.WithContext(sweepCtx)
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		return svc.RunOverdueSweep(gCtx, cfg.OverdueSweep)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	sweepCancel()
	if err = g.Wait(); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	if producer != nil {
		_ = producer.Close()
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
