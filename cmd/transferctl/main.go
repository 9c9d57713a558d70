package main

import "github.com/example/transfer-reservations/cmd"

func main() {
	cmd.Execute()
}
