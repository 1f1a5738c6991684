package main

import "github.com/ValentinKolb/plbench/cmd"

func main() {
	cmd.Execute()
}
