package main

import (
	"github.com/corray333/bookstore/internal/auth/app"
	"github.com/corray333/bookstore/internal/auth/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
