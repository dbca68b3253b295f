package main

import "emoscan/cmd"

func main() {
	cmd.Execute()
}
