// main.go - Entry point for the room booking server

package main

import "go-room-booking/cmd"

func main() {
	cmd.Execute()
}
