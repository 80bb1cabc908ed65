package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/wolfman30/restaurant-webhook/cmd/mainconfig"
	"github.com/wolfman30/restaurant-webhook/internal/app/bootstrap"
	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
	"github.com/wolfman30/restaurant-webhook/internal/webhook"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	var deps bootstrap.Deps
	if mainconfig.NeedsAWS(cfg) {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		clients := mainconfig.NewClients(awsCfg, cfg)
		deps.S3 = clients.S3
		deps.SES = clients.SES
	}

	app, err := bootstrap.Build(ctx, cfg, logger, deps)
	if err != nil {
		logger.Error("failed to wire webhook service", "error", err)
		os.Exit(1)
	}

	fn := &function{app: app, logger: logger}
	lambda.Start(fn.handle)
}

type function struct {
	app    *bootstrap.App
	logger *logging.Logger
}

func (f *function) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		status := f.app.Snapshot()
		status["status"] = "ok"
		return jsonResponse(status), nil
	}

	switch path {
	case "/webhook", "/":
	default:
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}
	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	var req webhook.Request
	body, err := decodeBody(evt)
	if err == nil && len(body) > 0 {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		f.logger.Warn("webhook-lambda: decode request failed", "error", err)
		return jsonResponse(f.app.Service.Apology("")), nil
	}

	resp := f.app.Service.Handle(ctx, req)
	// The runtime freezes between invocations, so emails go out before returning.
	f.app.Emails.Wait()
	return jsonResponse(resp), nil
}

func jsonResponse(v any) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers:    map[string]string{"content-type": "application/json"},
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}
