package main

import (
	"github.com/corray333/bookstore/internal/orders/app"
	"github.com/corray333/bookstore/internal/orders/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
