// internal/workers/crm/notify-sales/handler.go
package notifysales

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	cerrors "phoneshop-bot/internal/common/errors"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-sales"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	db        *sql.DB
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	if input.CustomerPhone == "" {
		h.failJob(client, job, string(cerrors.ErrCodeParseError), "customerPhone is required", 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, string(cerrors.ErrCodeLeadInsertFailed), err.Error(), 2)
		return
	}

	h.completeJob(client, job, output)
}

// Execute runs the lead capture and notification fan-out. Exported for testing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	leadID := uuid.New().String()
	createdAt := time.Now().UTC()

	if err := h.insertLead(ctx, leadID, input, createdAt); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	subject, body := h.buildNotification(leadID, input)

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && h.config.SalesEmail != "" {
		if err := h.sendEmail(ctx, h.config.SalesEmail, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":  err,
				"leadId": leadID,
			})
			return &Output{LeadID: leadID, Status: StatusFailed, CreatedAt: createdAt.Format(time.RFC3339)}, nil
		}
		emailSent = true
	}

	if h.config.SMSEnabled && h.config.SalesPhone != "" {
		if err := h.sendSMS(ctx, h.config.SalesPhone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":  err,
				"leadId": leadID,
			})
			return &Output{LeadID: leadID, Status: StatusFailed, EmailSent: emailSent, CreatedAt: createdAt.Format(time.RFC3339)}, nil
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusNotified
	}

	h.logger.Info("lead captured", map[string]interface{}{
		"leadId": leadID,
		"intent": input.Intent,
		"status": status,
	})

	return &Output{
		LeadID:    leadID,
		Status:    status,
		EmailSent: emailSent,
		SMSSent:   smsSent,
		CreatedAt: createdAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) insertLead(ctx context.Context, leadID string, input *Input, createdAt time.Time) error {
	query := `
		INSERT INTO leads (id, customer_phone, customer_name, message, intent, brand, model, budget, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := h.db.ExecContext(ctx, query,
		leadID,
		input.CustomerPhone,
		input.CustomerName,
		input.Message,
		input.Intent,
		input.Brand,
		input.Model,
		input.Budget,
		createdAt,
	)
	return err
}

func (h *Handler) buildNotification(leadID string, input *Input) (string, string) {
	name := input.CustomerName
	if name == "" {
		name = input.CustomerPhone
	}

	subject := fmt.Sprintf("New lead: %s wants to buy", name)

	body := fmt.Sprintf("Customer %s (%s) sent: %q\nIntent: %s", name, input.CustomerPhone, input.Message, input.Intent)
	if input.Brand != "" {
		body += fmt.Sprintf("\nBrand: %s", input.Brand)
	}
	if input.Model != "" {
		body += fmt.Sprintf("\nModel: %s", input.Model)
	}
	if input.Budget > 0 {
		body += fmt.Sprintf("\nBudget: %d", input.Budget)
	}
	body += fmt.Sprintf("\nLead ID: %s", leadID)

	return subject, body
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
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
