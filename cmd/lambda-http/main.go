// Command lambda-http serves the API behind API Gateway (HTTP API, payload v2).
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
)

// appLoader builds the app on first use and keeps it only once a build
// succeeds; a failed build is retried by the next invocation.
type appLoader struct {
	mu    sync.Mutex
	proxy *ginadapter.GinLambdaV2
	build func() (*ginadapter.GinLambdaV2, error)
}

func (l *appLoader) get() (*ginadapter.GinLambdaV2, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.proxy != nil {
		return l.proxy, nil
	}
	proxy, err := l.build()
	if err != nil {
		return nil, err
	}
	l.proxy = proxy
	return proxy, nil
}

var loader = &appLoader{build: func() (*ginadapter.GinLambdaV2, error) {
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		return nil, err
	}
	return ginadapter.NewV2(app.Router), nil
}}

func handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	proxy, err := loader.get()
	if err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"route": req.RouteKey,
			"error": err,
		})
		return errorResponse(http.StatusServiceUnavailable, "unavailable", "Service is unavailable, please retry"), nil
	}
	return proxy.ProxyWithContext(ctx, req)
}

// errorResponse matches the API's error envelope.
func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Retry-After":  "1",
		},
	}
}

func main() {
	lambda.Start(handle)
}
