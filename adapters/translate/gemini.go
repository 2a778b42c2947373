package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.2
	defaultMaxTokens      = 1024
	defaultTimeoutSeconds = 30
)

// ErrEmptyTranslation is returned when the model produced no text
var ErrEmptyTranslation = errors.New("empty translation")

// GeminiConfig holds configuration for the Gemini translator
type GeminiConfig struct {
	APIKey          string  `env:"API_KEY"`
	Model           string  `env:"MODEL"`
	Temperature     float32 `env:"TEMPERATURE"`
	MaxOutputTokens int     `env:"MAX_OUTPUT_TOKENS"`
	TimeoutSeconds  int     `env:"TIMEOUT_SECONDS"`
}

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", config.MaxOutputTokens)
	}

	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}

	return nil
}

// contentGenerator is the part of genai.Models used by the translator
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator implements Translator using Google's Gemini API
type GeminiTranslator struct {
	models          contentGenerator
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
	timeout         time.Duration
}

var _ repositories.Translator = (*GeminiTranslator)(nil)

// NewGeminiTranslator creates a Gemini API client and wraps it as a translator
func NewGeminiTranslator(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiTranslator, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiTranslator(client.Models, config, logger), nil
}

func newGeminiTranslator(models contentGenerator, config GeminiConfig, logger *zap.Logger) *GeminiTranslator {
	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
		logger.Info("Using default temperature", zap.Float32("temperature", temperature))
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
		logger.Info("Using default maxOutputTokens", zap.Int("maxOutputTokens", maxOutputTokens))
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
		logger.Info("Using default timeoutSeconds", zap.Int("timeoutSeconds", timeoutSeconds))
	}

	return &GeminiTranslator{
		models:          models,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		timeout:         time.Duration(timeoutSeconds) * time.Second,
	}
}

// Translate asks the model for a translation of text into the target language.
// A single attempt is made; the caller decides how to present failures.
func (g *GeminiTranslator) Translate(ctx context.Context, text string, target entities.Language) (entities.TranslatedText, error) {
	if strings.TrimSpace(text) == "" {
		return entities.TranslatedText{}, fmt.Errorf("text cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(text, target), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   int32(g.maxOutputTokens),
	}

	response, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		// returned as is, the message is spoken back to the user
		g.logger.Error("Failed to generate translation",
			zap.String("target", target.Code),
			zap.String("model", g.model),
			zap.Error(err))
		return entities.TranslatedText{}, err
	}

	translated := extractText(response)
	if translated == "" {
		g.logger.Warn("Empty translation", zap.String("target", target.Code))
		return entities.TranslatedText{}, ErrEmptyTranslation
	}

	g.logger.Info("Text translated",
		zap.String("target", target.Code),
		zap.Int("sourceLength", len(text)),
		zap.Int("translatedLength", len(translated)))

	return entities.TranslatedText{Text: translated, TargetCode: target.Code}, nil
}

const systemPrompt = "You are a translation engine. Reply with the translation only, " +
	"without quotes, notes, transliteration or explanations. Keep names and numbers unchanged."

func buildPrompt(text string, target entities.Language) string {
	return fmt.Sprintf("Translate the following text into %s (language code %q):\n\n%s",
		target.Name, target.Code, text)
}

// extractText concatenates the text parts of the first candidate
func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
