//go:build lambda

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/napolitain/geode-solver/internal/batch"
	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// solveRequest carries blueprints either as text (a JSON string) or in the
// JSON input format
type solveRequest struct {
	Blueprints json.RawMessage `json:"blueprints"`
	Minutes    *int            `json:"minutes"`
	First      int             `json:"first"`
}

var cfg = config.Default()

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req solveRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if len(bytes.TrimSpace(req.Blueprints)) == 0 {
		return errResp(400, "missing blueprints field")
	}

	minutes := cfg.Minutes
	if req.Minutes != nil {
		minutes = *req.Minutes
	}
	if minutes < 0 || minutes > geode.MaxHorizon {
		return errResp(400, fmt.Sprintf("minutes must be in [0, %d]", geode.MaxHorizon))
	}
	if req.First < 0 {
		return errResp(400, "first must be >= 0")
	}

	data := []byte(req.Blueprints)
	var text string
	if err := json.Unmarshal(req.Blueprints, &text); err == nil {
		data = []byte(text)
	}
	bps, err := loader.Parse(data)
	if err != nil {
		return errResp(400, err.Error())
	}
	if len(bps) == 0 {
		return errResp(400, "no blueprints found")
	}

	results, err := batch.Run(ctx, batch.First(bps, req.First), batch.Options{
		Minutes: minutes,
		Workers: cfg.Workers,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		for _, r := range results {
			if r.Err != nil && !errors.Is(r.Err, geode.ErrInterrupted) {
				return errResp(500, err.Error())
			}
		}
	}

	respJSON, _ := json.Marshal(batch.NewReport(minutes, results))
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	var err error
	if cfg, err = cfg.ApplyEnv(os.Getenv); err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel)
	lambda.Start(handler)
}
