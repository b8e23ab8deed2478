package main

import "VidPlayer/cmd"

func main() {
	cmd.Execute()
}
