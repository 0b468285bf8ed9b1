package main

import "github.com/Alturino/cityat/cmd"

func main() {
	cmd.Start()
}
