/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/kyamanaka/vtask-cli/cmd"

func main() {
	cmd.Execute()
}
