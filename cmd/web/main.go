package main

import "github.com/Mintenance-LTD/mintenance-sub002/internal/app"

func main() {
	app.Run()
}
