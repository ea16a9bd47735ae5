package main

import "secularai/internal/app"

// @title           SecularAI API
// @version         1.0
// @description     Backend for the SecularAI scripture-advice application.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
