package main

import (
	"fmt"
	"os"

	"github.com/frbox-labs/frbox/internal/domain"
)

func main() {
	env := domain.EnvLive

	if len(os.Args) > 1 && os.Args[1] == "test" {
		env = domain.EnvTest
	}

	key, prefix, err := domain.GenerateAPIKey(env)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if !domain.IsValidKeyFormat(key) {
		fmt.Println("Error: generated key failed format check")
		return
	}
	fmt.Printf("KEY=%s\nPREFIX=%s\n", key, prefix)
}
