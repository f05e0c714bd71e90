// internal/workers/bot/build-reply/handler.go
package buildreply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	"phoneshop-bot/internal/bot/formatter"
	cerrors "phoneshop-bot/internal/common/errors"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/metrics"
	"phoneshop-bot/internal/models"
)

const TaskType = "build-reply"

var (
	ErrReplyValidationFailed = errors.New("REPLY_VALIDATION_FAILED")
)

// inputSchema guards against malformed process variables; a reply built
// from half-shaped phones would reach a customer directly.
var inputSchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type":     "object",
	"required": []string{"intent"},
	"properties": map[string]interface{}{
		"intent": map[string]interface{}{"type": "string"},
		"matches": map[string]interface{}{
			"type":  "array",
			"items": phoneSchema,
		},
		"suggestions": map[string]interface{}{
			"type":  "array",
			"items": phoneSchema,
		},
	},
})

var phoneSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"brand", "model", "price"},
	"properties": map[string]interface{}{
		"brand": map[string]interface{}{"type": "string"},
		"model": map[string]interface{}{"type": "string"},
		"price": map[string]interface{}{"type": "number", "minimum": 0},
	},
}

type Handler struct {
	config    *Config
	formatter *formatter.Formatter
	logger    logger.Logger
}

func NewHandler(config *Config, f *formatter.Formatter, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		formatter: f,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	if err := h.validate(raw); err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeReplyValidationFailed), err.Error())
		return
	}

	var input Input
	payload, _ := json.Marshal(raw)
	if err := json.Unmarshal(payload, &input); err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeReplyBuildFailed), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) validate(raw map[string]interface{}) error {
	result, err := gojsonschema.Validate(inputSchema, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReplyValidationFailed, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %v", ErrReplyValidationFailed, errs)
	}
	return nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	result := models.MatchResult{
		Matches:     input.Matches,
		Suggestions: input.Suggestions,
	}

	response := h.formatter.Format(result, models.Intent(input.Intent))

	return &Output{
		Text:  response.Text,
		Items: response.Items,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
