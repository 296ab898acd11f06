package main

import (
	"context"
	"log"
	"os"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/pkg"
	"Tabletop_Community/internal/repository/mysql"
	"Tabletop_Community/internal/repository/redis"
	"Tabletop_Community/internal/router"
	"Tabletop_Community/internal/service"
)

func main() {
	dsn := os.Getenv("HUB_MYSQL_DSN")
	if dsn == "" {
		dsn = "user:password@tcp(127.0.0.1:3306)/tabletop?charset=utf8mb4&parseTime=True"
	}
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	redisAddr := os.Getenv("HUB_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	if err := redis.Init(redisAddr, os.Getenv("HUB_REDIS_PASSWORD"), 0); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectFollower{},
		&model.ProjectLike{},
		&model.GalleryImage{},
		&model.JournalEntry{},
		&model.Event{},
		&model.EventAttendee{},
		&model.Job{},
		&model.JobApplication{},
		&model.Resource{},
		&model.ResourceReview{},
		&model.ActivityOutbox{},
	); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// outbox 投递：配了 broker 走 kafka，否则打日志兜底
	sender := service.LogSender
	if brokers := os.Getenv("HUB_KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: []string{brokers},
			Topic:   "community-activity",
		})
		if err != nil {
			log.Fatalf("kafka producer init: %v", err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)

	// 岗位过期清扫
	go service.NewJobExpirer(service.NewJobService(mysql.DB)).Run(ctx)

	emailCfg := pkg.SMTPConfig{
		Host:     os.Getenv("HUB_SMTP_HOST"),
		Port:     587,
		Username: os.Getenv("HUB_SMTP_USER"),
		Password: os.Getenv("HUB_SMTP_PASSWORD"),
		From:     "Tabletop Hub <no-reply@example.com>",
	}

	r := router.InitRouter(mysql.DB, emailCfg)
	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
