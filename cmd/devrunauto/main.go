package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/pravjet2007-code/devrunauto/internal/cli"
	"github.com/pravjet2007-code/devrunauto/internal/config"
	"github.com/pravjet2007-code/devrunauto/internal/device"
	"github.com/pravjet2007-code/devrunauto/internal/llm_client"
	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/mission"
	"github.com/pravjet2007-code/devrunauto/internal/planner"
)

func main() {
	// .env is optional; plain environment variables work too.
	_ = godotenv.Load()

	if err := logger.Init("devrunauto.log"); err != nil {
		log.Fatalf("Fatal Error: Could not initialize logger: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fatal Error: %v", err)
	}

	if err := llm_client.Init(llm_client.Config{
		Backend:    cfg.Backend,
		Model:      cfg.Model,
		OllamaHost: cfg.OllamaHost,
	}); err != nil {
		log.Fatalf("Fatal Error: Could not initialize LLM client: %v", err)
	}
	logger.Log.Printf("LLM backend: %s", llm_client.ActiveBackend())

	step := planner.NewStepPlanner(cfg.Model, cfg.StepLimit)
	retried := planner.WithRetry(step, cfg.PlanAttempts, cfg.PlanBackoffBase)

	orch := mission.New(
		&device.ADBManager{Serial: cfg.ADBSerial},
		retried,
		mission.Config{
			StepLimit:      cfg.StepLimit,
			StabilizeDelay: cfg.StabilizeDelay,
		},
	)

	cli.Execute(cfg, orch)
}
