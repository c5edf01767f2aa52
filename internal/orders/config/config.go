package config

import (
	"log/slog"

	"github.com/corray333/bookstore/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func MustInit() {
	_ = godotenv.Load("./.env")

	viper.SetConfigName("orders")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/bookstore")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func SetupLogger() {
	handler := logger.NewHandler(nil)
	log := slog.New(handler)
	slog.SetDefault(log)
}
