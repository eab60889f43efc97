package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stock-ranker/internal/performance"
	"stock-ranker/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		MarginTop(1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(0, 1)

	riskPanelStyle = panelStyle.
		BorderForeground(lipgloss.Color("#EF4444"))

	bullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	bearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Italic(true)
)

func sentimentStyle(s string) lipgloss.Style {
	switch s {
	case string(types.SentimentBullish), "VERY_BULLISH":
		return bullishStyle
	case string(types.SentimentBearish):
		return bearishStyle
	default:
		return neutralStyle
	}
}

// RenderDaily formats one ranking run for the terminal.
func RenderDaily(r *types.DailyResult) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render(fmt.Sprintf("Next-morning top %d (%s %s)", len(r.Top10), r.Date, r.Time)))
	out.WriteString("\n")
	fmt.Fprintf(&out, "Market sentiment: %s\n", sentimentStyle(string(r.MarketSentiment)).Render(string(r.MarketSentiment)))
	if r.GlobalMarket != nil {
		if r.GlobalMarket.Measured {
			fmt.Fprintf(&out, "Global market: %s (avg %+.2f%%)\n",
				sentimentStyle(r.GlobalMarket.Sentiment).Render(r.GlobalMarket.Sentiment), r.GlobalMarket.AvgChange)
		} else {
			out.WriteString(mutedStyle.Render("Global market: unavailable") + "\n")
		}
	}
	fmt.Fprintf(&out, "News analyzed: %d (domestic %d, global %d), names mentioned: %d\n",
		r.NewsCounts.Total, r.NewsCounts.Domestic, r.NewsCounts.Global, r.NewsCounts.NamesMentioned)
	if len(r.HotSectors) > 0 {
		fmt.Fprintf(&out, "Hot sectors: %s\n", strings.Join(r.HotSectors, ", "))
	}

	out.WriteString(sectionStyle.Render("Top picks") + "\n")
	if len(r.Top10) == 0 {
		out.WriteString(mutedStyle.Render("No names ranked. No news was collected or nothing matched.") + "\n")
	} else {
		var rows strings.Builder
		for i, e := range r.Top10 {
			if i > 0 {
				rows.WriteString("\n")
			}
			fmt.Fprintf(&rows, "%2d. %-22s %7.1f  %-8s x%d  %s", e.Rank, e.Name, e.Score, e.Region, e.MentionCount, e.Reason)
		}
		out.WriteString(panelStyle.Render(rows.String()) + "\n")
	}

	if len(r.Declining) > 0 {
		out.WriteString(sectionStyle.Render("Declining watch") + "\n")
		var rows strings.Builder
		for i, e := range r.Declining {
			if i > 0 {
				rows.WriteString("\n")
			}
			fmt.Fprintf(&rows, "%2d. %-22s risk %5.1f  %s", e.Rank, e.Name, e.RiskScore, e.Reason)
		}
		out.WriteString(riskPanelStyle.Render(rows.String()) + "\n")
	}

	writeTrends(&out, "Emerging trends", r.EmergingTrends)
	writeTrends(&out, "Influential entities", r.InfluentialImpact)
	return out.String()
}

func writeTrends(out *strings.Builder, title string, report types.TrendReport) {
	if len(report.Categories) == 0 && len(report.Narratives) == 0 {
		return
	}
	out.WriteString(sectionStyle.Render(title) + "\n")
	for _, c := range report.Categories {
		fmt.Fprintf(out, "  %s (%d)\n", c.Category, c.Mentions)
	}
	for _, n := range report.Narratives {
		fmt.Fprintf(out, "  [%s] %s: %s\n", n.ImpactLevel, n.Category, n.Headline)
		if len(n.RelatedNames) > 0 {
			out.WriteString(mutedStyle.Render("      related: "+strings.Join(n.RelatedNames, ", ")) + "\n")
		}
	}
}

// RenderPerformance formats a hit-rate report.
func RenderPerformance(r *types.PerformanceReport) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render(fmt.Sprintf("Performance over %d days", r.RequestedDays)))
	out.WriteString("\n")
	fmt.Fprintf(&out, "Results found: %d, return source: %s\n", r.ResultsFound, r.DataSource)
	if r.Synthetic {
		out.WriteString(warnStyle.Render("Returns are synthetic and do not reflect real prices.") + "\n")
	}
	if r.InsufficientData {
		out.WriteString(mutedStyle.Render("Not enough data to evaluate.") + "\n")
		return out.String()
	}

	fmt.Fprintf(&out, "Rows: %d, missing lookups: %d\n", r.Rows, r.Missing)
	fmt.Fprintf(&out, "Correlation: %.3f\n", r.Correlation)
	fmt.Fprintf(&out, "Accuracy: %.1f%%\n", r.AccuracyRate*100)

	if len(r.Top5) > 0 {
		out.WriteString(sectionStyle.Render("Best realized returns") + "\n")
		var rows strings.Builder
		for i, rec := range r.Top5 {
			if i > 0 {
				rows.WriteString("\n")
			}
			style := bullishStyle
			if rec.RealizedReturn <= 0 {
				style = bearishStyle
			}
			fmt.Fprintf(&rows, "%d. %-22s %s  %s", i+1, rec.Name, style.Render(fmt.Sprintf("%+.2f%%", rec.RealizedReturn)), rec.Label)
		}
		out.WriteString(panelStyle.Render(rows.String()) + "\n")
	}
	return out.String()
}

// RenderWeekly formats the per-day, per-name and per-sector summary.
func RenderWeekly(w performance.WeeklySummary) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render(fmt.Sprintf("Weekly summary (%d days)", len(w.Days))))
	out.WriteString("\n")
	if len(w.Days) == 0 {
		out.WriteString(mutedStyle.Render("No stored results in this window.") + "\n")
		return out.String()
	}

	out.WriteString(sectionStyle.Render("Days") + "\n")
	for _, d := range w.Days {
		fmt.Fprintf(&out, "  %s  %-8s  picks %2d  news %d/%d  top %s\n",
			d.Date, sentimentStyle(string(d.Sentiment)).Render(string(d.Sentiment)), d.Predictions, d.DomesticNews, d.GlobalNews, d.TopName)
	}

	counts := w.SentimentCounts()
	fmt.Fprintf(&out, "  bullish %d, neutral %d, bearish %d\n",
		counts[types.SentimentBullish], counts[types.SentimentNeutral], counts[types.SentimentBearish])

	if len(w.Names) > 0 {
		out.WriteString(sectionStyle.Render("Most ranked") + "\n")
		for i, n := range w.Names {
			if i == 10 {
				break
			}
			regions := make([]string, len(n.Regions))
			for j, r := range n.Regions {
				regions[j] = string(r)
			}
			fmt.Fprintf(&out, "  %-22s %d days  avg %.1f  %s\n", n.Name, n.Appearances, n.AvgScore, strings.Join(regions, "/"))
		}
	}

	if len(w.HotSectors) > 0 {
		out.WriteString(sectionStyle.Render("Hot sectors") + "\n")
		for _, s := range w.HotSectors {
			fmt.Fprintf(&out, "  %-20s %d days\n", s.Sector, s.Days)
		}
	}
	return out.String()
}
