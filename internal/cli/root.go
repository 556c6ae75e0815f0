package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pravjet2007-code/devrunauto/internal/config"
	"github.com/pravjet2007-code/devrunauto/internal/display"
	"github.com/pravjet2007-code/devrunauto/internal/listener"
	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/mission"
	"github.com/pravjet2007-code/devrunauto/internal/server"
	"github.com/pravjet2007-code/devrunauto/internal/supervisor"
)

var cfg *config.Config
var orch *mission.Orchestrator

var rootCmd = &cobra.Command{
	Use:   "devrunauto",
	Short: "Vision-driven device automation",
	Long:  `Drives a connected Android device toward a natural-language goal, one screenshot at a time, using a vision-capable planning model.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listener.Init(); err != nil {
			fmt.Println("Failed to init terminal input:", err)
			os.Exit(1)
		}
		defer listener.Close()

		supervisor.Start(orch)
		go printResults()

		// Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-c
			fmt.Println("\nGoodbye!")
			os.Exit(0)
		}()

		listener.AsyncPrintln("Device agent ready. Type a goal, 'cancel' to stop the running mission, 'exit' to quit.")

		for {
			input := listener.GetInput()
			switch strings.ToLower(input) {
			case "exit", "quit":
				fmt.Println("Goodbye!")
				return
			case "":
				continue
			case "cancel":
				id, err := supervisor.CancelCurrent()
				if err != nil {
					listener.AsyncPrintln(fmt.Sprintf("[Cancel] %v", err))
				} else {
					listener.AsyncPrintln(fmt.Sprintf("[Cancel] Mission %s will stop after the current step", id))
				}
				continue
			}

			if supervisor.IsGoalRisky(input) {
				if !listener.AskYesNo(fmt.Sprintf("Goal %q may spend money or commit to something. Run it?", input)) {
					listener.AsyncPrintln("[Goal REJECTED]")
					continue
				}
			}

			id := supervisor.Submit(input)
			logger.Log.Printf("[CLI] Submitted mission %s: %q", id, input)
			listener.AsyncPrintln(fmt.Sprintf("[Mission %s STARTED]", id))
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Run a single mission and exit",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		goal := strings.Join(args, " ")
		out := orch.RunMission(cmd.Context(), goal)
		fmt.Println(display.FormatOutcome(&out))
		fmt.Println(display.FormatMissionMetrics(out.Metrics))
		if out.Status != mission.StatusSuccess {
			os.Exit(1)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the mission queue over HTTP and WebSocket",
	Run: func(cmd *cobra.Command, args []string) {
		supervisor.Start(orch)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.New().Run(ctx, cfg.ListenAddr); err != nil {
			fmt.Println("Server error:", err)
			os.Exit(1)
		}
	},
}

// printResults pushes finished-mission summaries above the prompt.
func printResults() {
	for result := range supervisor.ResultChannel {
		listener.AsyncPrintln(fmt.Sprintf("[Mission %s %s]", result.MissionID, result.State))
		listener.AsyncPrintln(display.FormatOutcome(&result.Outcome))
		if result.Outcome.Metrics != nil {
			listener.AsyncPrintln(display.FormatMissionMetrics(result.Outcome.Metrics))
		}
	}
}

func Execute(c *config.Config, o *mission.Orchestrator) {
	cfg = c
	orch = o
	rootCmd.AddCommand(runCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
