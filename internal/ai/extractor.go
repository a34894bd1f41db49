package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/piotrkw/invoice-ledger/internal/record"
)

// ChatCompleter is the slice of the OpenAI client the extractor needs.
// *openai.Client satisfies it; tests substitute a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config tunes the model call.
type Config struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Extractor sends document text to a generative model constrained to
// the extraction schema and validates what comes back.
type Extractor struct {
	client ChatCompleter
	cfg    Config
	schema *jsonschema.Schema
	logger *zap.Logger
}

// NewExtractor builds an Extractor around an injected client. The
// client's lifecycle is owned by the caller so tests can substitute a
// fake.
func NewExtractor(client ChatCompleter, cfg Config, logger *zap.Logger) (*Extractor, error) {
	schema, err := compileExtractionSchema()
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Extractor{client: client, cfg: cfg, schema: schema, logger: logger}, nil
}

// Extract reads financial fields from document text. It never fails:
// an unusable response is logged and replaced by FallbackExtraction,
// so one bad document cannot abort a batch.
func (e *Extractor) Extract(ctx context.Context, text string) record.Extraction {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildExtractionPrompt(text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Warn("model call failed, using fallback extraction", zap.Error(err))
		return record.FallbackExtraction()
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		e.logger.Warn("model returned no text, using fallback extraction")
		return record.FallbackExtraction()
	}

	repaired := RepairResponse(resp.Choices[0].Message.Content)
	if err := validateAgainstSchema(e.schema, []byte(repaired)); err != nil {
		e.logger.Warn("model response rejected, using fallback extraction",
			zap.Error(err),
			zap.String("response", repaired))
		return record.FallbackExtraction()
	}

	var extraction record.Extraction
	if err := json.Unmarshal([]byte(repaired), &extraction); err != nil {
		e.logger.Warn("model response not decodable, using fallback extraction", zap.Error(err))
		return record.FallbackExtraction()
	}

	return normalize(extraction)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalize applies defaults and the derived-value rules to a
// schema-valid extraction.
func normalize(x record.Extraction) record.Extraction {
	x.CompanyName = strings.TrimSpace(whitespaceRun.ReplaceAllString(x.CompanyName, " "))
	if x.CompanyName == "" {
		x.CompanyName = record.FallbackCompanyName
	}
	if strings.TrimSpace(x.InvoiceDate) == "" {
		x.InvoiceDate = record.SentinelDate
	}
	if x.Currency == "" {
		x.Currency = record.BaseCurrency
	}
	if x.CompanyCountry == "" {
		x.CompanyCountry = "Brak"
	}

	// Net can be derived when the model only saw gross and tax. Tax
	// may legitimately be zero (VAT-exempt invoices), so only gross
	// gates the derivation.
	if x.NetValue == 0 && x.GrossValue > 0 {
		x.NetValue = x.GrossValue - x.TaxValue
	}

	// A EUR-only invoice carries its net figure in the euro column.
	if x.EuroNetValue == 0 && x.Currency == "EUR" {
		x.EuroNetValue = x.NetValue
	}
	return x
}
