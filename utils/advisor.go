package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrAdviceGeneration marks failures anywhere in the advice pipeline.
var ErrAdviceGeneration = errors.New("advice generation failed")

// ChatCompleter is the slice of the OpenAI client the advisor needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AdvisorInterface interface {
	Generate(ctx context.Context, in AdviceInput) (string, error)
}

// AdviceInput is everything the analysis prompt is built from.
type AdviceInput struct {
	CurrentRate     float64
	HistoricalRates []float64
	NewsSnippet     string
	Preference      string
	RiskTolerance   string
}

// Advisor runs the two-stage advice pipeline: an English market
// analysis, then a Korean translation of it. Every call goes to the
// model twice; nothing is cached or retried.
type Advisor struct {
	client ChatCompleter
	model  string
}

func NewAdvisor(client ChatCompleter, model string) AdvisorInterface {
	return &Advisor{client: client, model: model}
}

func (a *Advisor) Generate(ctx context.Context, in AdviceInput) (string, error) {
	analysis, err := a.complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(in))
	if err != nil {
		return "", fmt.Errorf("%w: analysis: %w", ErrAdviceGeneration, err)
	}

	advice, err := a.complete(ctx, translationSystemPrompt, buildTranslationPrompt(analysis))
	if err != nil {
		return "", fmt.Errorf("%w: translation: %w", ErrAdviceGeneration, err)
	}
	return advice, nil
}

func (a *Advisor) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const analysisSystemPrompt = "You are a foreign-exchange investment expert. " +
	"Give professional advice on USD investments based on the current market situation."

const translationSystemPrompt = "You are a professional financial translator. " +
	"Translate investment advice into natural Korean without changing its meaning."

func buildAnalysisPrompt(in AdviceInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current USD/KRW rate: %.2f\n", in.CurrentRate)
	fmt.Fprintf(&b, "USD/KRW daily closes for the last %d days, oldest first: %s\n", len(in.HistoricalRates), formatRates(in.HistoricalRates))
	fmt.Fprintf(&b, "Latest market news: %s\n", in.NewsSnippet)
	fmt.Fprintf(&b, "Investor profile: preference %s, risk tolerance %s\n\n", in.Preference, in.RiskTolerance)
	b.WriteString("Based on the above, advise on investing in US dollars. Cover:\n" +
		"1. How the current rate compares to the last 30 days\n" +
		"2. The trend of the rate (rising, falling, sideways)\n" +
		"3. A buy, sell, or hold recommendation with reasoning\n" +
		"4. Potential risks and cautions\n\n" +
		"Keep the advice concise, clear, and professional.")
	return b.String()
}

func buildTranslationPrompt(analysis string) string {
	return "Translate the following investment advice into Korean:\n\n" + analysis
}

func formatRates(rates []float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = fmt.Sprintf("%.2f", r)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
