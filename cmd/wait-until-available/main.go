package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/healthcheck -timeout=2m
func main() {
	url := flag.String("url", "http://localhost:8080/healthcheck", "the health check endpoint")
	timeout := flag.Duration("timeout", 5*time.Minute, "how long to wait before giving up")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}
	deadline := time.Now().Add(*timeout)
	totalWaitTime := 0
	for {
		res, err := client.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				return
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if time.Now().After(deadline) {
			fmt.Println("giving up")
			os.Exit(1)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
