package main

import "github.com/frahmantamala/empleoya/cmd"

func main() {
	cmd.Execute()
}
