package main

import "canteen-service/cmd/canteen/commands"

func main() {
	commands.Execute()
}
