// internal/workers/bot/query-inventory/handler.go
package queryinventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"phoneshop-bot/internal/bot/matcher"
	cerrors "phoneshop-bot/internal/common/errors"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/metrics"
	"phoneshop-bot/internal/models"
	"phoneshop-bot/internal/store"
)

const TaskType = "query-inventory"

var (
	ErrQueryExecutionFailed = errors.New("INVENTORY_QUERY_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
)

type Handler struct {
	config  *Config
	matcher *matcher.Matcher
	logger  logger.Logger
}

func NewHandler(config *Config, m *matcher.Matcher, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		matcher: m,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := string(cerrors.ErrCodeInventoryQueryFailed)
		retries := int32(1)
		if errors.Is(err, ErrQueryTimeout) {
			errorCode = string(cerrors.ErrCodeQueryTimeout)
			retries = 2
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	result, err := h.matcher.Match(ctx, models.InventoryQuery{
		Brand:         input.Brand,
		Text:          input.Query,
		MaxPrice:      input.MaxPrice,
		MinPrice:      input.MinPrice,
		AvailableOnly: true,
		Limit:         limit,
		Sort:          models.SortPriceAsc,
	})
	if err != nil {
		if errors.Is(err, store.ErrQueryTimeout) || ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	return &Output{
		Matches:     result.Matches,
		Suggestions: result.Suggestions,
		Count:       len(result.Matches),
		Note:        result.Note,
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
		"retryable":    cerrors.IsRetryable(cerrors.ErrorCode(errorCode)),
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
