package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stock-ranker/internal/logger"
	"stock-ranker/internal/types"
)

type slackMessage struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// Slack posts summaries to an incoming webhook.
type Slack struct {
	client  *resty.Client
	webhook string
	channel string
}

func NewSlack(webhook, channel string, timeout time.Duration) (*Slack, error) {
	if webhook == "" {
		return nil, errors.New("slack webhook url is empty")
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetLogger(restyLogger{})

	return &Slack{client: client, webhook: webhook, channel: channel}, nil
}

// restyLogger routes resty's own messages through the structured logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logger.Error(context.Background(), fmt.Sprintf(format, v...), "component", "slack")
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logger.Warn(context.Background(), fmt.Sprintf(format, v...), "component", "slack")
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logger.Debug(context.Background(), fmt.Sprintf(format, v...), "component", "slack")
}

func (s *Slack) NotifyDaily(ctx context.Context, result *types.DailyResult) error {
	return s.post(ctx, FormatDaily(result))
}

func (s *Slack) NotifyPerformance(ctx context.Context, report *types.PerformanceReport) error {
	return s.post(ctx, FormatPerformance(report))
}

func (s *Slack) post(ctx context.Context, text string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(slackMessage{Channel: s.channel, Text: text}).
		Post(s.webhook)
	if err != nil {
		return fmt.Errorf("slack webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	logger.Debug(ctx, "Slack message delivered", "status", resp.StatusCode(), "bytes", len(text))
	return nil
}

// FormatDaily renders the top ranking and declining names as Slack mrkdwn.
func FormatDaily(result *types.DailyResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Next-morning top %d* (%s %s) market: *%s*\n", len(result.Top10), result.Date, result.Time, result.MarketSentiment)
	if result.GlobalMarket != nil && result.GlobalMarket.Measured {
		fmt.Fprintf(&b, "Global market: %s (avg %+.2f%%)\n", result.GlobalMarket.Sentiment, result.GlobalMarket.AvgChange)
	}
	if len(result.HotSectors) > 0 {
		fmt.Fprintf(&b, "Hot sectors: %s\n", strings.Join(result.HotSectors, ", "))
	}
	if len(result.Top10) == 0 {
		b.WriteString("No names ranked today.\n")
	}
	for _, e := range result.Top10 {
		fmt.Fprintf(&b, "%d. *%s* %.1f [%s] %s\n", e.Rank, e.Name, e.Score, e.Region, e.Reason)
	}
	if len(result.Declining) > 0 {
		b.WriteString("*Watch out:* ")
		names := make([]string, len(result.Declining))
		for i, d := range result.Declining {
			names[i] = fmt.Sprintf("%s (%.0f)", d.Name, d.RiskScore)
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPerformance renders a hit-rate report. Synthetic data is always
// called out.
func FormatPerformance(report *types.PerformanceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Performance over %d days* (%d results, source %s)\n", report.RequestedDays, report.ResultsFound, report.DataSource)
	if report.Synthetic {
		b.WriteString(":warning: returns are synthetic, not measured\n")
	}
	if report.InsufficientData {
		b.WriteString("Not enough data to evaluate.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Rows: %d, missing: %d, correlation: %.3f, accuracy: %.1f%%\n",
		report.Rows, report.Missing, report.Correlation, report.AccuracyRate*100)
	for i, r := range report.Top5 {
		fmt.Fprintf(&b, "%d. %s %+.2f%% (%s)\n", i+1, r.Name, r.RealizedReturn, r.Label)
	}
	return b.String()
}
