package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/df07/go-stochastic-raytracer/web/server"
)

func main() {
	_ = godotenv.Load()

	scenesDir := os.Getenv("RAYTRACER_SCENES_DIR")
	if scenesDir == "" {
		scenesDir = "scenes"
	}

	port := flag.Int("port", 8080, "Port to serve on")
	flag.StringVar(&scenesDir, "scenes", scenesDir, "Directory searched for .json scenes")
	flag.Parse()

	webServer := server.NewServer(*port, scenesDir)

	log.Printf("Stochastic Raytracer Web Server")
	log.Printf("Render with http://localhost:%d/api/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
