package main

import "github.com/fdumary/HawkEye/cmd"

func main() {
	cmd.Execute()
}
