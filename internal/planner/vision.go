package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pravjet2007-code/devrunauto/internal/llm_client"
)

// StepPlanner asks the active LLM backend for the next atomic action, one
// screenshot at a time.
type StepPlanner struct {
	Model     string
	StepLimit int
}

func NewStepPlanner(model string, stepLimit int) *StepPlanner {
	return &StepPlanner{Model: model, StepLimit: stepLimit}
}

func (p *StepPlanner) Plan(ctx context.Context, goal string, history []string, screenshot []byte) (*Decision, error) {
	prompt := buildStepPrompt(goal, history, p.StepLimit)
	raw, err := llm_client.GenerateVision(ctx, prompt, screenshot, p.Model)
	if err != nil {
		return nil, fmt.Errorf("planner generate: %w", err)
	}
	return Decode(raw)
}

func buildStepPrompt(goal string, history []string, stepLimit int) string {
	var sb strings.Builder

	sb.WriteString("You are an advanced touchscreen automation brain.\n")
	sb.WriteString(fmt.Sprintf("Main Goal: %s\n", goal))
	sb.WriteString(fmt.Sprintf("Step: %d/%d\n", len(history)+1, stepLimit))
	sb.WriteString(fmt.Sprintf("History of executed actions: [%s]\n\n", strings.Join(history, ", ")))

	sb.WriteString("Analyze the screenshot. Coordinates use a relative 0-1000 scale on both axes.\n")
	sb.WriteString("Identify the NEXT single action.\n")
	sb.WriteString("- If the keyboard is open and blocking the view, use \"back\" to close it ONLY if you are NOT currently typing/searching.\n")
	sb.WriteString("- If you are searching, DO NOT use \"back\" as it might exit the search. Instead, proceed to tap the result IF VISIBLE.\n")
	sb.WriteString("- If the desired item is ALREADY visible, prefer 'tap' over 'type'.\n\n")

	sb.WriteString("Output valid JSON only:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"analysis\": \"Thinking process...\",\n")
	sb.WriteString("  \"status\": \"continue\" | \"done\" | \"failed\",\n")
	sb.WriteString("  \"action\": {\n")
	sb.WriteString("    \"type\": \"tap\" | \"type\" | \"key\" | \"wait\" | \"back\" | \"home\" | \"done\",\n")
	sb.WriteString("    \"bq_box\": [ymin, xmin, ymax, xmax] (0-1000 scale) - REQUIRED for 'tap', OPTIONAL for 'type' (to tap first),\n")
	sb.WriteString("    \"text\": \"...\" (REQUIRED for 'type'),\n")
	sb.WriteString("    \"keycode\": \"...\" (REQUIRED for 'key'),\n")
	sb.WriteString("    \"data\": {...} (REQUIRED if status='done', extracted info)\n")
	sb.WriteString("  }\n")
	sb.WriteString("}\n")

	return sb.String()
}
