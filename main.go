package main

import "github.com/alexis-sammut/fittrack/cmd/fittrack"

func main() {
	fittrack.Execute()
}
