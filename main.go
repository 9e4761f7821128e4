package main

import "github.com/liberhite/Aplikasipengajuan/cmd"

func main() {
	cmd.Execute()
}
