package main

import "github.com/ValentinKolb/dConcert/cmd"

func main() {
	cmd.Execute()
}
