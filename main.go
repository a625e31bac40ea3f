package main

import "github.com/Manu343726/armldr/cmd"

func main() {
	cmd.Execute()
}
