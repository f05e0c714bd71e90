// internal/workers/bot/parse-message-intent/handler.go
package parsemessageintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"phoneshop-bot/internal/bot"
	cerrors "phoneshop-bot/internal/common/errors"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/metrics"
	"phoneshop-bot/internal/models"
)

const TaskType = "parse-message-intent"

var (
	ErrEmptyMessage = errors.New("EMPTY_MESSAGE")
)

type Handler struct {
	config   *Config
	pipeline *bot.Pipeline
	logger   logger.Logger
}

func NewHandler(config *Config, pipeline *bot.Pipeline, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		pipeline: pipeline,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeInvalidMessageFormat), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrEmptyMessage)
	}

	result := h.pipeline.Analyze(models.InboundMessage{
		From: input.From,
		Name: input.Name,
		Text: input.Message,
	})

	return &Output{
		Analysis: AnalysisVars{
			Intent:   result.Analysis.Intent,
			Brand:    result.Analysis.Entities.Brand,
			Model:    result.Analysis.Entities.Model,
			Budget:   result.Analysis.Entities.Budget,
			Keywords: result.Analysis.Entities.Keywords,
		},
		SuggestedAction: result.Analysis.Action,
		APIEndpoint:     result.APIEndpoint,
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
