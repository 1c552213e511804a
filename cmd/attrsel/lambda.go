package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/internal/service"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// lambdaLogger writes JSON lines to stderr, which the runtime forwards to
// CloudWatch.
var lambdaLogger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

// lambdaLimits bounds requests; the invocation deadline bounds run time.
var lambdaLimits = service.Limits{
	MaxWorkers:    service.DefaultLimits().MaxWorkers,
	MaxIterations: service.DefaultLimits().MaxIterations,
}

// handler serves a search over a Lambda Function URL. The body is the same
// as for POST /v1/search.
func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	req, err := service.DecodeRequest([]byte(body))
	if err == nil {
		req, err = lambdaLimits.Apply(req)
	}
	if err != nil {
		return errResp(service.Status(err), err.Error())
	}

	logger := lambdaLogger.With("request_id", event.RequestContext.RequestID)
	resp, err := service.Run(ctx, req, annealing.WithLogger(logger))
	if err != nil {
		logger.Warn("search failed", "error", err)
		return errResp(service.Status(err), err.Error())
	}

	respJSON, err := json.Marshal(resp)
	if err != nil {
		return errResp(http.StatusInternalServerError, err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(service.ErrorBody{Error: msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
