package main

import (
	"warbler/api"
)

func main() {
	api.Run()
}
