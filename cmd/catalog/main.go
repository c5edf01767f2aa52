package main

import (
	"github.com/corray333/bookstore/internal/catalog/app"
	"github.com/corray333/bookstore/internal/catalog/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
