package types

// NewsRecord is one collected news snippet. Missing fields are empty strings.
type NewsRecord struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	Source        string `json:"source"`
	PublishedDate string `json:"published_date"`
	URL           string `json:"url"`
}

// Text returns the title and body joined by a single space.
func (r NewsRecord) Text() string {
	return r.Title + " " + r.Body
}

// NewsBatch holds one run's records split by collector region.
type NewsBatch struct {
	Domestic []NewsRecord `json:"domestic"`
	Global   []NewsRecord `json:"global"`
}

// All returns domestic records followed by global records.
func (b NewsBatch) All() []NewsRecord {
	all := make([]NewsRecord, 0, len(b.Domestic)+len(b.Global))
	all = append(all, b.Domestic...)
	return append(all, b.Global...)
}

type Region string

const (
	RegionDomestic Region = "DOMESTIC"
	RegionForeign  Region = "FOREIGN"
	RegionOther    Region = "OTHER"
)

type MarketSentiment string

const (
	SentimentBullish MarketSentiment = "BULLISH"
	SentimentBearish MarketSentiment = "BEARISH"
	SentimentNeutral MarketSentiment = "NEUTRAL"
)

type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "LOW"
	ImpactMedium   ImpactLevel = "MEDIUM"
	ImpactHigh     ImpactLevel = "HIGH"
	ImpactCritical ImpactLevel = "CRITICAL"
)

// Rank orders impact levels, Critical highest. Unknown levels rank below Low.
func (l ImpactLevel) Rank() int {
	switch l {
	case ImpactCritical:
		return 4
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether l is one of the four known levels.
func (l ImpactLevel) Valid() bool {
	return l.Rank() > 0
}

type RankedEntry struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"stock_name"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
	MentionCount int     `json:"mention_count"`
	Region       Region  `json:"region"`
}

type RiskEntry struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"stock_name"`
	RiskScore    float64 `json:"risk_score"`
	Reason       string  `json:"reason"`
	MentionCount int     `json:"mention_count"`
	Region       Region  `json:"region"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Mentions int    `json:"mentions"`
}

type Narrative struct {
	Category     string      `json:"category"`
	Headline     string      `json:"headline"`
	ImpactLevel  ImpactLevel `json:"impact_level"`
	RelatedNames []string    `json:"related_names"`
	Rationale    string      `json:"rationale"`
}

// TrendReport is the output of one keyword-category scanner.
type TrendReport struct {
	Categories []CategoryCount `json:"categories"`
	Narratives []Narrative     `json:"narratives"`
}

type NewsCounts struct {
	Domestic       int `json:"domestic_news_count"`
	Global         int `json:"global_news_count"`
	Total          int `json:"total_news_analyzed"`
	NamesMentioned int `json:"total_stocks_mentioned"`
}

type IndexChange struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// GlobalMarket is the overseas index snapshot attached to a daily result.
// Measured is false when no index could be fetched.
type GlobalMarket struct {
	Sentiment string                 `json:"sentiment"`
	Indices   map[string]IndexChange `json:"indices,omitempty"`
	AvgChange float64                `json:"avg_change"`
	Measured  bool                   `json:"measured"`
}

// DailyResult is the unit of historical record. It is not modified after creation.
type DailyResult struct {
	RunID             string          `json:"run_id"`
	Date              string          `json:"date"`
	Time              string          `json:"time"`
	MarketSentiment   MarketSentiment `json:"market_sentiment"`
	HotSectors        []string        `json:"hot_sectors"`
	NewsCounts        NewsCounts      `json:"news_counts"`
	Top10             []RankedEntry   `json:"top_10_stocks"`
	Declining         []RiskEntry     `json:"declining_stocks"`
	EmergingTrends    TrendReport     `json:"emerging_trends"`
	InfluentialImpact TrendReport     `json:"influential_impact"`
	GlobalMarket      *GlobalMarket   `json:"global_market,omitempty"`
}

// PerformanceRecord joins one ranked entry with its realized return.
type PerformanceRecord struct {
	Date           string  `json:"date"`
	Name           string  `json:"stock_name"`
	PredictedScore float64 `json:"predicted_score"`
	RealizedReturn float64 `json:"realized_return"`
	Rank           int     `json:"rank"`
	Region         Region  `json:"region"`
	Source         string  `json:"source"`
}

type Recommendation struct {
	Name           string  `json:"stock_name"`
	RealizedReturn float64 `json:"realized_return"`
	Label          string  `json:"label"`
}

type PerformanceReport struct {
	RequestedDays    int                 `json:"requested_days"`
	ResultsFound     int                 `json:"results_found"`
	Rows             int                 `json:"rows"`
	Missing          int                 `json:"missing"`
	Correlation      float64             `json:"correlation"`
	AccuracyRate     float64             `json:"accuracy_rate"`
	Top5             []Recommendation    `json:"top_5"`
	Records          []PerformanceRecord `json:"records,omitempty"`
	InsufficientData bool                `json:"insufficient_data"`
	DataSource       string              `json:"data_source"`
	Synthetic        bool                `json:"synthetic"`
}
