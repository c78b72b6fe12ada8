package suggest

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/gemdo/gemdo/internal/task"
)

// DefaultModel is the Gemini model used for all three operations.
const DefaultModel = "gemini-2.5-flash"

// stringArraySchema constrains a response to a JSON array of strings.
var stringArraySchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key, overriding the environment lookup.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger used for degraded failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is a stateless wrapper around the Gemini API. The underlying
// connection is created lazily on first use.
type Client struct {
	apiKey string
	model  string
	logger *log.Logger

	mutex  sync.Mutex
	client *genai.Client

	// generate is swappable in tests.
	generate func(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// New creates a client. The API key comes from GEMINI_API_KEY or
// GOOGLE_API_KEY unless WithAPIKey is given.
func New(opts ...Option) *Client {
	var apiKey string
	if value := os.Getenv("GEMINI_API_KEY"); value != "" {
		apiKey = value
	} else if value := os.Getenv("GOOGLE_API_KEY"); value != "" {
		apiKey = value
	}
	c := &Client{
		apiKey: apiKey,
		model:  DefaultModel,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.generate == nil {
		c.generate = c.generateContent
	}
	return c
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) initClient(ctx context.Context) (*genai.Client, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = client
	return c.client, nil
}

// generateContent performs one round trip. A non-nil schema constrains
// the response to JSON matching it.
func (c *Client) generateContent(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	client, err := c.initClient(ctx)
	if err != nil {
		return "", err
	}

	var config *genai.GenerateContentConfig
	if schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp)
}

// responseText extracts the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("no content in response")
	}
	var text string
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text, nil
}

// SuggestTasks asks the model for 3 new task suggestions based on the
// current list. Transport failures and malformed responses are returned
// to the caller.
func (c *Client) SuggestTasks(ctx context.Context, tasks []task.Task) ([]string, error) {
	text, err := c.generate(ctx, buildTasksPrompt(tasks), stringArraySchema)
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	suggestions, err := parseStringArray(text)
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	return suggestions, nil
}

// Categorize asks the model for a single one-word category for the task
// text. Any failure degrades to DefaultCategory; this runs behind every
// add and must never fail the add flow.
func (c *Client) Categorize(ctx context.Context, text string) string {
	raw, err := c.generate(ctx, buildCategoryPrompt(text), nil)
	if err != nil {
		c.logger.Debug("Categorization failed", "error", err)
		return task.DefaultCategory
	}
	category := sanitizeCategory(raw)
	if category == "" {
		return task.DefaultCategory
	}
	return category
}

// SuggestCategories asks the model for up to 5 candidate categories for
// the task text. Any failure degrades to an empty result.
func (c *Client) SuggestCategories(ctx context.Context, text string) []string {
	raw, err := c.generate(ctx, buildCategoriesPrompt(text), stringArraySchema)
	if err != nil {
		c.logger.Debug("Category suggestions failed", "error", err)
		return nil
	}
	categories, err := parseStringArray(raw)
	if err != nil {
		c.logger.Debug("Category suggestions failed", "error", err)
		return nil
	}
	return categories
}
