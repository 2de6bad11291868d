// Package main provides the tinynn command line demo.
package main

import (
	"fmt"
	"log"
	"os"
)

const version = "v0.1.0"

func usage() {
	fmt.Println("tinynn - small neural networks with numeric and analytic gradients")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version     Show version")
	fmt.Println("  xor         Train a network on XOR (supervised backprop)")
	fmt.Println("  gradcheck   Compare numeric and analytic gradients")
	fmt.Println("  corridor    Train a policy-gradient agent on a toy corridor")
	fmt.Println("")
	fmt.Println("Run 'tinynn <command> -h' for command flags.")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("tinynn: ")

	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "version":
		fmt.Printf("tinynn %s\n", version)
	case "xor":
		err = runXOR(args)
	case "gradcheck":
		err = runGradcheck(args)
	case "corridor":
		err = runCorridor(args)
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}
