package main

import "github.com/rcski77/aes-results-scraping/internal/cli"

func main() {
	cli.Execute()
}
