package lambdahttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"blogredirect/internal/redirect"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

type EventKind string

const (
	EventRESTAPI EventKind = "apigw_rest"
	EventHTTPAPI EventKind = "apigw_http"
	EventALB     EventKind = "alb"
)

var ErrEmptyPayload = errors.New("empty invocation payload")

type Resolver func(path string) (redirect.Response, error)

// Handler serves redirect invocations for API Gateway REST and HTTP APIs,
// Lambda function URLs and ALB target groups. The response is encoded in the
// family of the incoming event.
type Handler struct {
	resolve Resolver
	logger  *slog.Logger
}

var _ lambda.Handler = (*Handler)(nil)

func NewHandler(resolve Resolver, logger *slog.Logger) *Handler {
	if resolve == nil {
		resolve = redirect.Resolve
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{resolve: resolve, logger: logger}
}

// Start hands the handler to the Lambda runtime loop. It does not return.
func Start(h *Handler) {
	lambda.Start(h)
}

type eventProbe struct {
	RequestContext struct {
		HTTP json.RawMessage `json:"http"`
		ELB  json.RawMessage `json:"elb"`
	} `json:"requestContext"`
}

// DetectKind reports which Lambda HTTP event family payload belongs to.
// Payloads without a recognizable request context are treated as REST API
// proxy events.
func DetectKind(payload []byte) (EventKind, error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}

	var probe eventProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "", fmt.Errorf("decode event: %w", err)
	}

	switch {
	case isPresent(probe.RequestContext.HTTP):
		return EventHTTPAPI, nil
	case isPresent(probe.RequestContext.ELB):
		return EventALB, nil
	default:
		return EventRESTAPI, nil
	}
}

func (h *Handler) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	kind, err := DetectKind(payload)
	if err != nil {
		h.logFailure(ctx, "", "", err)
		return nil, err
	}

	var out any
	switch kind {
	case EventHTTPAPI:
		out, err = h.serveHTTPAPI(ctx, payload)
	case EventALB:
		out, err = h.serveALB(ctx, payload)
	default:
		out, err = h.serveRESTAPI(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", kind, err)
	}
	return encoded, nil
}

func (h *Handler) serveHTTPAPI(ctx context.Context, payload []byte) (events.APIGatewayV2HTTPResponse, error) {
	var event events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		return events.APIGatewayV2HTTPResponse{}, h.decodeFailure(ctx, EventHTTPAPI, err)
	}

	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}

	resp, err := h.resolvePath(ctx, EventHTTPAPI, path)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers(),
		Body:       resp.Body,
	}, nil
}

func (h *Handler) serveALB(ctx context.Context, payload []byte) (events.ALBTargetGroupResponse, error) {
	var event events.ALBTargetGroupRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		return events.ALBTargetGroupResponse{}, h.decodeFailure(ctx, EventALB, err)
	}

	resp, err := h.resolvePath(ctx, EventALB, event.Path)
	if err != nil {
		return events.ALBTargetGroupResponse{}, err
	}

	out := events.ALBTargetGroupResponse{
		StatusCode:        resp.StatusCode,
		StatusDescription: statusDescription(resp.StatusCode),
		Body:              resp.Body,
	}
	// Target groups with multi-value headers enabled ignore the single-value map.
	if event.MultiValueHeaders != nil {
		out.MultiValueHeaders = multiValue(resp.Headers())
	} else {
		out.Headers = resp.Headers()
	}
	return out, nil
}

func (h *Handler) serveRESTAPI(ctx context.Context, payload []byte) (events.APIGatewayProxyResponse, error) {
	var event events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		return events.APIGatewayProxyResponse{}, h.decodeFailure(ctx, EventRESTAPI, err)
	}

	resp, err := h.resolvePath(ctx, EventRESTAPI, event.Path)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers(),
		Body:       resp.Body,
	}, nil
}

func (h *Handler) resolvePath(ctx context.Context, kind EventKind, path string) (redirect.Response, error) {
	resp, err := h.resolve(path)
	if err != nil {
		h.logFailure(ctx, kind, path, err)
		return redirect.Response{}, err
	}

	h.logger.LogAttrs(ctx, slog.LevelDebug, "redirect resolved",
		slog.String("request_id", requestID(ctx)),
		slog.String("event", string(kind)),
		slog.String("path", path),
		slog.String("location", resp.Location),
		slog.Int("status", resp.StatusCode),
	)
	return resp, nil
}

func (h *Handler) decodeFailure(ctx context.Context, kind EventKind, err error) error {
	err = fmt.Errorf("decode %s event: %w", kind, err)
	h.logFailure(ctx, kind, "", err)
	return err
}

func (h *Handler) logFailure(ctx context.Context, kind EventKind, path string, err error) {
	h.logger.LogAttrs(ctx, slog.LevelError, "redirect invocation failed",
		slog.String("request_id", requestID(ctx)),
		slog.String("event", string(kind)),
		slog.String("path", path),
		slog.Bool("construction_error", redirect.IsResponseConstructionError(err)),
		slog.String("error", err.Error()),
	)
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}

func multiValue(headers map[string]string) map[string][]string {
	out := make(map[string][]string, len(headers))
	for key, value := range headers {
		out[key] = []string{value}
	}
	return out
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func statusDescription(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
