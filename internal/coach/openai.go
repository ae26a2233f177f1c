// ABOUTME: Gateway implementation against any OpenAI-compatible chat endpoint.
// ABOUTME: Uses structured output for plans and nutrition, streaming for chat.
package coach

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/juju/clock"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
)

// ErrNoAPIKey is returned when the client is built without credentials.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config configures the OpenAI client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
	Clock       clock.Clock
}

// Client is a Gateway backed by the OpenAI chat completions API.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	clock       clock.Clock
}

var _ Gateway = (*Client)(nil)

// NewClient builds a Gateway. Requests are never retried.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		clock:       cfg.Clock,
	}, nil
}

// GeneratePlan asks the model for a seven-day plan.
func (c *Client) GeneratePlan(ctx context.Context, profile models.UserProfile) (*models.WorkoutPlan, error) {
	raw, err := c.completeJSON(ctx,
		[]openai.ChatCompletionMessageParamUnion{openai.UserMessage(PlanPrompt(profile))},
		"workout_plan", "A personalized seven-day workout plan", PlanSchema(), true)
	if err != nil {
		return nil, err
	}

	plan, err := ParsePlan(raw)
	if err != nil {
		return nil, err
	}
	plan.AssignExerciseIDs(c.clock.Now())
	return plan, nil
}

// NutritionFromText estimates macros for a free-text meal description.
func (c *Client) NutritionFromText(ctx context.Context, query string) ([]models.FoodItem, error) {
	raw, err := c.completeJSON(ctx,
		[]openai.ChatCompletionMessageParamUnion{openai.UserMessage(NutritionPrompt(query))},
		"nutrition", "Estimated nutrition per food item", NutritionSchema(), false)
	if err != nil {
		return nil, err
	}
	return ParseFoodItems(raw)
}

// NutritionFromImage estimates macros for a photographed meal.
func (c *Client) NutritionFromImage(ctx context.Context, image []byte, mimeType string) ([]models.FoodItem, error) {
	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	msg := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		openai.TextContentPart(ImagePrompt),
	})

	raw, err := c.completeJSON(ctx, []openai.ChatCompletionMessageParamUnion{msg},
		"nutrition", "Estimated nutrition per food item", NutritionSchema(), false)
	if err != nil {
		return nil, err
	}
	return ParseFoodItems(raw)
}

func (c *Client) completeJSON(ctx context.Context, msgs []openai.ChatCompletionMessageParamUnion, name, desc string, schema *jsonschema.Schema, withTemperature bool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        name,
					Description: openai.String(desc),
					Schema:      schema,
				},
			},
		},
	}
	if withTemperature {
		params.Temperature = openai.Float(c.temperature)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// NewChat starts a conversation with the coach persona.
func (c *Client) NewChat(profile models.UserProfile, history []models.ChatMessage) ChatSession {
	msgs := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(SystemInstruction(profile))}
	for _, m := range history {
		switch m.Role {
		case models.RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Text()))
		case models.RoleModel:
			msgs = append(msgs, openai.AssistantMessage(m.Text()))
		}
	}
	return &chatSession{client: c, messages: msgs}
}

type chatSession struct {
	client   *Client
	mu       sync.Mutex
	messages []openai.ChatCompletionMessageParamUnion
}

// Send streams the coach's reply. The turn is remembered once the stream
// completes successfully.
func (s *chatSession) Send(ctx context.Context, text string) (*Stream, error) {
	s.mu.Lock()
	msgs := append(slices.Clone(s.messages), openai.UserMessage(text))
	s.mu.Unlock()

	st := s.client.api.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.client.model),
		Messages: msgs,
	})
	if err := st.Err(); err != nil {
		_ = st.Close()
		return nil, classify(err)
	}

	return NewStream(&completionChunks{stream: st}, func(full string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.messages = append(s.messages, openai.UserMessage(text), openai.AssistantMessage(full))
	}), nil
}

type completionChunks struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	current string
}

func (c *completionChunks) Next() bool {
	for c.stream.Next() {
		chunk := c.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		c.current = chunk.Choices[0].Delta.Content
		return true
	}
	return false
}

func (c *completionChunks) Chunk() string { return c.current }

func (c *completionChunks) Err() error { return c.stream.Err() }

func (c *completionChunks) Close() error { return c.stream.Close() }
