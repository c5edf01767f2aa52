package main

import (
	"github.com/corray333/bookstore/internal/audit/app"
	"github.com/corray333/bookstore/internal/audit/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
