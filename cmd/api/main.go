package main

import (
	"context"
	"log"

	"Lin_BookClub/internal/config"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"
	"Lin_BookClub/internal/repository/redis"
	"Lin_BookClub/internal/router"
	"Lin_BookClub/internal/service"
)

func main() {
	cfg := config.LoadConfig()
	pkg.SetJWTSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatalf("mysql init failed: %v", err)
	}
	if err := mysql.AutoMigrate(mysql.DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatalf("redis init failed: %v", err)
	}
	defer redis.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 通知投递：配置了 Kafka 就走消息队列，否则落日志
	var sender service.Sender = service.LogSender
	if brokers := cfg.BrokerList(); len(brokers) > 0 {
		producer := pkg.NewNotificationProducer(brokers, cfg.KafkaTopic)
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	relayer := service.NewOutboxRelayer(mysql.DB, sender)
	go relayer.Run(ctx)

	reconciler := service.NewCountReconciler(mysql.DB)
	go reconciler.Run(ctx)

	r := router.InitRouter(cfg, mysql.DB)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
